package schema

import "fmt"

// FieldValue is one captured key/value pair in schema order.
type FieldValue struct {
	Key   string
	Value string
}

// Result is a pure snapshot of one validation pass. It captures the values it
// saw (sanitized for freeText fields) so a later submission serializes exactly
// what was validated, even if the draft is edited afterwards.
type Result struct {
	valid  bool
	errors map[string]string
	values []FieldValue
}

// Valid reports whether every field passed.
func (r Result) Valid() bool {
	return r.valid
}

// Error returns the message recorded for a field key, or "" when the field
// passed.
func (r Result) Error(key string) string {
	return r.errors[key]
}

// Errors returns a copy of all per-field messages. Fields that passed are
// absent from the map.
func (r Result) Errors() map[string]string {
	out := make(map[string]string, len(r.errors))
	for k, v := range r.errors {
		out[k] = v
	}
	return out
}

// Values returns the captured field values in schema order. Only meaningful
// when Valid reports true.
func (r Result) Values() []FieldValue {
	return append([]FieldValue(nil), r.values...)
}

// Validate evaluates a draft against a schema. It is pure and deterministic:
// no field's rule sees another field's value, and calling it twice with the
// same inputs yields identical results.
func Validate(s Schema, d *Draft) Result {
	result := Result{
		valid:  true,
		errors: make(map[string]string),
		values: make([]FieldValue, 0, len(s.fields)),
	}

	for _, field := range s.fields {
		value := d.Get(field.Key)

		if field.Required && value == "" {
			result.fail(field, "%s is required", field.displayName())
			continue
		}

		if field.Kind == KindChoice && value != "" && !containsOption(field.Options, value) {
			result.fail(field, "%s must be one of the listed options", field.displayName())
			continue
		}

		if field.Rule != nil {
			if err := field.Rule(value); err != nil {
				result.fail(field, "%s %s", field.displayName(), err.Error())
				continue
			}
		}

		if field.Kind == KindFreeText {
			value = sanitizeFreeText(value)
		}
		result.values = append(result.values, FieldValue{Key: field.Key, Value: value})
	}

	if !result.valid {
		result.values = nil
	}
	return result
}

func (r *Result) fail(field FieldSpec, format string, args ...any) {
	r.valid = false
	r.errors[field.Key] = fmt.Sprintf(format, args...)
}

func containsOption(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
