package submission

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// MaxBodyBytes caps the size of a submission body.
const MaxBodyBytes = 1 << 20

// ParseRequest reads the request body and parses it according to its
// Content-Type. JSON and url-encoded bodies are supported; any other type is
// tried as JSON first and then as url-encoded. An empty body yields an empty
// submission.
func ParseRequest(r *http.Request) (*Submission, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("reading body: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return ParseJSON(body)
	case "application/x-www-form-urlencoded":
		return ParseForm(body)
	default:
		if s, err := ParseJSON(body); err == nil {
			return s, nil
		}
		return ParseForm(body)
	}
}

// ParseJSON parses a JSON object, keeping its key order.
func ParseJSON(body []byte) (*Submission, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return New(), nil
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedBody)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedBody)
	}

	var fields []Field
	doc.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, fieldFromJSON(key.String(), value))
		return true
	})
	return New(fields...), nil
}

func fieldFromJSON(name string, v gjson.Result) Field {
	switch v.Type {
	case gjson.String:
		return Field{Name: name, Value: v.String(), Kind: KindString}
	case gjson.Number:
		return Field{Name: name, Value: v.Raw, Kind: KindNumber}
	case gjson.True, gjson.False:
		return Field{Name: name, Value: v.Raw, Kind: KindBool}
	case gjson.Null:
		return Field{Name: name, Kind: KindNull}
	default:
		return Field{Name: name, Value: v.Raw, Kind: KindJSON}
	}
}

// ParseForm parses an url-encoded body, keeping pair order. Every value is a string.
func ParseForm(body []byte) (*Submission, error) {
	var fields []Field
	for _, pair := range strings.Split(string(body), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		fields = append(fields, Field{Name: key, Value: val, Kind: KindString})
	}
	return New(fields...), nil
}
