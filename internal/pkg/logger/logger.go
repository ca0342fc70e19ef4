// Package logger builds the process-wide zap logger and carries the PII
// redaction rules applied to email addresses in log fields.
package logger

import (
	"regexp"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var redactPII atomic.Bool

func init() { redactPII.Store(true) }

// SetRedactPII enables or disables email redaction for Email and Redact fields.
func SetRedactPII(r bool) { redactPII.Store(r) }

// New creates a logger for the given environment. "production" emits JSON,
// anything else a colored console encoder.
func New(environment string) (*zap.Logger, error) {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	return config.Build(zap.AddCaller())
}

// RedactEmail keeps the first two characters of the local part and the
// domain: "john.doe@example.com" becomes "jo***@example.com". Local parts of
// two characters or fewer are masked entirely; anything that is not a single
// local@domain pair becomes "***@***".
func RedactEmail(addr string) string {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || strings.Contains(domain, "@") {
		return "***@***"
	}
	if len(local) <= 2 {
		return "***@" + domain
	}
	return local[:2] + "***@" + domain
}

// Email returns a zap field whose value is masked when redaction is enabled.
func Email(key, addr string) zap.Field {
	if redactPII.Load() {
		addr = RedactEmail(addr)
	}
	return zap.String(key, addr)
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Redact returns a string field with any embedded email addresses masked.
// Use for free text that may carry addresses, such as provider error bodies.
func Redact(key, val string) zap.Field {
	if redactPII.Load() {
		val = emailRegex.ReplaceAllStringFunc(val, RedactEmail)
	}
	return zap.String(key, val)
}
