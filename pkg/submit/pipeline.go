package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/attach"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// ErrNotValidated is returned when Submit is called without a successful
// validation result. This is a programming error in the caller, not a
// submission outcome: the pipeline never re-validates, and no network call is
// made.
var ErrNotValidated = errors.New("submit: draft has not passed validation")

// Option customises the pipeline configuration.
type Option func(*Pipeline)

// WithTransport injects a custom Transport. Defaults to HTTPTransport.
func WithTransport(t Transport) Option {
	return func(p *Pipeline) {
		p.transport = t
	}
}

// WithFileOpener injects a custom resolver for picked image URIs.
func WithFileOpener(opener FileOpener) Option {
	return func(p *Pipeline) {
		p.opener = opener
	}
}

// WithLogger attaches a structured logger. Defaults to a no-op logger so
// library consumers opt in to output.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline performs one multipart submission per Submit call and classifies
// the result. It holds no per-form state and may be shared across forms.
type Pipeline struct {
	transport Transport
	opener    FileOpener
	logger    *zap.Logger
}

// New constructs a Pipeline applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Pipeline {
	p := &Pipeline{
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.transport == nil {
		p.transport = &HTTPTransport{}
	}
	if p.opener == nil {
		p.opener = defaultFileOpener
	}
	return p
}

// Submit serializes the validated values and attached images into one
// multipart request, performs a single transport call with the bearer token
// when present, and classifies the HTTP outcome. An empty token omits the
// Authorization header; some endpoints are called unauthenticated.
//
// Structural mistakes (unvalidated draft, malformed binding, a populated slot
// with no declared naming) return an error and perform no network call.
// Everything that can happen once the request is underway is reported through
// the Outcome.
func (p *Pipeline) Submit(ctx context.Context, binding Binding, receipt schema.Result, snapshot attach.Snapshot, token string) (Outcome, error) {
	if !receipt.Valid() {
		return Outcome{}, ErrNotValidated
	}
	if err := binding.validate(); err != nil {
		return Outcome{}, err
	}
	if err := checkSlotBindings(binding, snapshot); err != nil {
		return Outcome{}, err
	}

	values := receipt.Values()
	body, contentType, err := encodeBody(binding, values, snapshot, p.opener)
	if err != nil {
		// Could not assemble the payload (unreadable image, encoder fault).
		// The request never left the process.
		p.logger.Warn("submission setup failed",
			zap.String("endpoint", binding.Endpoint),
			zap.Error(err))
		return Outcome{
			Kind:   OutcomeTransportFailure,
			Reason: fmt.Sprintf("%s: %v", StageSetup, err),
		}, nil
	}

	header := make(http.Header)
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	p.logger.Debug("submitting form",
		zap.String("endpoint", binding.Endpoint),
		zap.Int("fields", len(values)),
		zap.Int("images", countImages(snapshot)),
		zap.Bool("authenticated", token != ""))

	resp, err := p.transport.PostMultipart(ctx, Request{
		URL:         binding.Endpoint,
		ContentType: contentType,
		Body:        body,
		Header:      header,
	})
	if err != nil {
		outcome := classifyTransportError(err)
		p.logger.Warn("submission transport failure",
			zap.String("endpoint", binding.Endpoint),
			zap.String("reason", outcome.Reason))
		return outcome, nil
	}

	outcome := classifyResponse(resp)
	p.logger.Debug("submission classified",
		zap.String("endpoint", binding.Endpoint),
		zap.Int("status", outcome.Status),
		zap.String("kind", string(outcome.Kind)))
	return outcome, nil
}

func checkSlotBindings(binding Binding, snapshot attach.Snapshot) error {
	for _, slot := range snapshot {
		if len(slot.Items) == 0 {
			continue
		}
		naming, ok := binding.namingFor(slot.Name)
		if !ok {
			return fmt.Errorf("submit: slot %q has images but no declared file naming", slot.Name)
		}
		if naming.Convention == NamingSingular && len(slot.Items) > 1 {
			return fmt.Errorf("submit: slot %q is bound as singular but holds %d images", slot.Name, len(slot.Items))
		}
	}
	return nil
}

func classifyTransportError(err error) Outcome {
	var terr *TransportError
	if errors.As(err, &terr) {
		return Outcome{
			Kind:   OutcomeTransportFailure,
			Reason: fmt.Sprintf("%s: %v", terr.Stage, terr.Err),
		}
	}
	return Outcome{
		Kind:   OutcomeTransportFailure,
		Reason: fmt.Sprintf("%s: %v", StageNoResponse, err),
	}
}

func classifyResponse(resp *Response) Outcome {
	switch {
	case resp.Status >= 200 && resp.Status < 300:
		outcome := Outcome{
			Kind:   OutcomeSuccess,
			Status: resp.Status,
			Raw:    append([]byte(nil), resp.Body...),
		}
		var payload map[string]any
		if err := json.Unmarshal(resp.Body, &payload); err == nil {
			outcome.Payload = payload
		}
		return outcome

	case resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden:
		return Outcome{
			Kind:   OutcomeUnauthorized,
			Status: resp.Status,
			Raw:    append([]byte(nil), resp.Body...),
		}

	case resp.Status >= 400 && resp.Status < 500:
		fields, form := decodeRejection(resp.Body)
		return Outcome{
			Kind:        OutcomeValidationRejected,
			Status:      resp.Status,
			Raw:         append([]byte(nil), resp.Body...),
			FieldErrors: fields,
			FormErrors:  form,
		}

	default:
		// A 5xx carries no actionable detail for the user; treat it like an
		// unreachable backend so the UI shows the connectivity message.
		return Outcome{
			Kind:   OutcomeTransportFailure,
			Status: resp.Status,
			Raw:    append([]byte(nil), resp.Body...),
			Reason: fmt.Sprintf("server error (status %d)", resp.Status),
		}
	}
}

func countImages(snapshot attach.Snapshot) int {
	total := 0
	for _, slot := range snapshot {
		total += len(slot.Items)
	}
	return total
}
