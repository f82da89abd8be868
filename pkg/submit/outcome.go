package submit

import (
	"encoding/json"
	"strings"
)

// OutcomeKind tags the classified result of one submission attempt.
type OutcomeKind string

const (
	// OutcomeSuccess means the backend accepted the submission (2xx).
	OutcomeSuccess OutcomeKind = "success"

	// OutcomeValidationRejected means the backend's own validation disagreed
	// with the client's (4xx other than auth).
	OutcomeValidationRejected OutcomeKind = "validationRejected"

	// OutcomeUnauthorized means the credential was missing or invalid.
	OutcomeUnauthorized OutcomeKind = "unauthorized"

	// OutcomeTransportFailure means no usable response was obtained: network
	// failure, timeout, request setup error, or a server-side fault.
	OutcomeTransportFailure OutcomeKind = "transportFailure"
)

// Outcome is the uniform result of one submission attempt. It is produced
// once per attempt and never retried by the pipeline.
type Outcome struct {
	Kind OutcomeKind

	// Status is the HTTP status code when a response was received, 0
	// otherwise.
	Status int

	// Payload holds the parsed JSON body of a successful response. Nil when
	// the body was empty or not JSON; Raw preserves the bytes either way.
	Payload map[string]any

	// Raw is the response body as received.
	Raw []byte

	// FieldErrors carries server-reported messages keyed by field name for
	// OutcomeValidationRejected.
	FieldErrors map[string][]string

	// FormErrors carries messages not attributable to a single field. Always
	// non-empty for OutcomeValidationRejected so the UI has something to show.
	FormErrors []string

	// Reason is the human-readable explanation for OutcomeTransportFailure,
	// distinguishing "no response" from "request setup" failures.
	Reason string
}

// IsSuccess reports whether the submission was accepted.
func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

const genericRejectionMessage = "could not submit, please review the form and try again"

// serverErrorBody matches the error shapes the backend is known to emit:
// a per-field errors object, a details string, or a bare message.
type serverErrorBody struct {
	Errors  map[string]json.RawMessage `json:"errors"`
	Details string                     `json:"details"`
	Message string                     `json:"message"`
}

// decodeRejection maps a 4xx body onto field-level and form-level messages.
// Unknown shapes fall back to a generic message so the failure is never
// silent.
func decodeRejection(body []byte) (map[string][]string, []string) {
	var parsed serverErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, []string{genericRejectionMessage}
	}

	fields := make(map[string][]string)
	for key, raw := range parsed.Errors {
		name := strings.TrimSpace(key)
		messages := normalizeMessages(decodeMessageList(raw))
		if len(messages) == 0 {
			continue
		}
		if isFormLevelKey(name) {
			fields[""] = append(fields[""], messages...)
			continue
		}
		fields[name] = messages
	}

	var form []string
	if extra, ok := fields[""]; ok {
		form = append(form, extra...)
		delete(fields, "")
	}
	if msg := strings.TrimSpace(parsed.Details); msg != "" {
		form = append(form, msg)
	}
	if msg := strings.TrimSpace(parsed.Message); msg != "" {
		form = append(form, msg)
	}

	if len(fields) == 0 {
		fields = nil
	}
	form = normalizeMessages(form)
	if len(fields) == 0 && len(form) == 0 {
		form = []string{genericRejectionMessage}
	}
	return fields, form
}

// decodeMessageList accepts both "field": "message" and
// "field": ["message", ...] payload styles.
func decodeMessageList(raw json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
