package submission

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Conventional field names read by the relay steps.
const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldTimestamp = "timestamp"
)

// Kind identifies how a field value was encoded in the request.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindNull
	KindJSON // nested array or object, kept as raw JSON text
)

// Field is one name/value pair of a submission.
type Field struct {
	Name  string
	Value string // display text; raw JSON for KindNumber, KindBool, KindJSON
	Kind  Kind
}

// Submission is an immutable, ordered form submission.
type Submission struct {
	id     string
	fields []Field
	index  map[string]int
}

// New builds a submission from fields in order. A repeated name replaces the
// earlier value but keeps the earlier position.
func New(fields ...Field) *Submission {
	s := &Submission{
		id:    uuid.New().String(),
		index: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if i, ok := s.index[f.Name]; ok {
			s.fields[i] = f
			continue
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// FromStrings builds a submission of string fields from alternating name/value pairs.
func FromStrings(pairs ...string) *Submission {
	fields := make([]Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields = append(fields, Field{Name: pairs[i], Value: pairs[i+1], Kind: KindString})
	}
	return New(fields...)
}

// ID is a random identifier used to correlate log lines for this submission.
func (s *Submission) ID() string { return s.id }

// Len returns the number of fields.
func (s *Submission) Len() int { return len(s.fields) }

// Fields returns a copy of the fields in request order.
func (s *Submission) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the named field.
func (s *Submission) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Get returns the display value of the named field, or "" when absent or null.
func (s *Submission) Get(name string) string {
	f, ok := s.Lookup(name)
	if !ok || f.Kind == KindNull {
		return ""
	}
	return f.Value
}

// Username is the submitter's free-text name.
func (s *Submission) Username() string { return s.Get(FieldUsername) }

// Email is the submitter's contact address.
func (s *Submission) Email() string { return strings.TrimSpace(s.Get(FieldEmail)) }

// Timestamp is the submission's ISO-8601 date string.
func (s *Submission) Timestamp() string { return s.Get(FieldTimestamp) }

// MarshalJSON renders the submission as a JSON object with fields in request order.
func (s *Submission) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		switch f.Kind {
		case KindNumber, KindBool, KindJSON:
			buf.WriteString(f.Value)
		case KindNull:
			buf.WriteString("null")
		default:
			val, err := json.Marshal(f.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the JSON rendering, or "{}" if it cannot be produced.
func (s *Submission) String() string {
	b, err := s.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}
