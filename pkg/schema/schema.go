package schema

import (
	"fmt"
	"strings"
)

// Kind is the simplified enum for form-friendly field kinds.
type Kind string

const (
	KindText     Kind = "text"
	KindDigits   Kind = "digits"
	KindNumeric  Kind = "numeric"
	KindChoice   Kind = "choice"
	KindFreeText Kind = "freeText"
)

// FieldSpec describes a single form field: its wire key, kind, and the rule
// applied during validation. Rules must be total functions over all string
// inputs, including the empty string.
type FieldSpec struct {
	// Key is the multipart field name the backend expects. Spellings are
	// preserved per endpoint (for example "addarNumber"), never unified.
	Key string

	// Kind drives prompt/widget selection in consumers; the engine itself
	// only enforces choice membership.
	Kind Kind

	// Label is the human-facing name used in error messages. Falls back to
	// Key when empty.
	Label string

	Required bool

	// Options enumerates the allowed values for KindChoice fields.
	Options []string

	// Rule is evaluated after the required check. A nil Rule accepts every
	// value.
	Rule Rule
}

func (f FieldSpec) displayName() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Key
}

// Schema is the ordered, immutable definition of a form's fields.
type Schema struct {
	fields []FieldSpec
	index  map[string]int
}

// New builds a Schema, failing fast on malformed input so validate-time calls
// never observe a bad schema.
func New(fields ...FieldSpec) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, fmt.Errorf("schema: at least one field is required")
	}

	index := make(map[string]int, len(fields))
	for i, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			return Schema{}, fmt.Errorf("schema: field %d has an empty key", i)
		}
		if field.Key != key {
			return Schema{}, fmt.Errorf("schema: field key %q has surrounding whitespace", field.Key)
		}
		if _, exists := index[key]; exists {
			return Schema{}, fmt.Errorf("schema: duplicate field key %q", key)
		}
		if field.Kind == KindChoice && len(field.Options) == 0 {
			return Schema{}, fmt.Errorf("schema: choice field %q declares no options", key)
		}
		index[key] = i
	}

	return Schema{
		fields: append([]FieldSpec(nil), fields...),
		index:  index,
	}, nil
}

// MustNew panics if the schema cannot be built. Useful for tests and embedded
// definitions whose validity is established elsewhere.
func MustNew(fields ...FieldSpec) Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns a defensive copy of the field definitions in declaration
// order.
func (s Schema) Fields() []FieldSpec {
	return append([]FieldSpec(nil), s.fields...)
}

// Field looks up a single field by key.
func (s Schema) Field(key string) (FieldSpec, bool) {
	i, ok := s.index[key]
	if !ok {
		return FieldSpec{}, false
	}
	return s.fields[i], true
}

// Len reports the number of fields.
func (s Schema) Len() int {
	return len(s.fields)
}
