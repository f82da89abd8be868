package submit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is one prepared multipart submission.
type Request struct {
	URL         string
	ContentType string
	Body        []byte
	Header      http.Header
}

// Response is the raw result of a completed transport call.
type Response struct {
	Status int
	Body   []byte
}

// Transport abstracts the single network-facing dependency of the pipeline.
// Implementations perform exactly one HTTP call per invocation and never
// retry.
type Transport interface {
	PostMultipart(ctx context.Context, req Request) (*Response, error)
}

const (
	// StageSetup marks failures before the request left the process.
	StageSetup = "request setup"

	// StageNoResponse marks failures after dispatch with no usable response.
	StageNoResponse = "no response"
)

// TransportError wraps a network-layer failure with the stage it occurred in,
// so callers can tell "could not build/read the request" from "the server
// never answered".
type TransportError struct {
	Stage string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("submit: %s: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DefaultTimeout bounds a single submission attempt.
const DefaultTimeout = 30 * time.Second

// HTTPTransport is the production Transport backed by net/http.
type HTTPTransport struct {
	// Client defaults to a client with DefaultTimeout.
	Client *http.Client
}

// PostMultipart performs one POST and reads the full response body. Context
// cancellation and client timeouts surface as StageNoResponse failures.
func (t *HTTPTransport) PostMultipart(ctx context.Context, req Request) (*Response, error) {
	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, &TransportError{Stage: StageSetup, Err: err}
	}
	httpReq.Header.Set("Content-Type", req.ContentType)
	for name, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Stage: StageNoResponse, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Stage: StageNoResponse, Err: err}
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}
