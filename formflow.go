// Package formflow assembles form definitions, the field schema engine, the
// attachment manager, and the submission pipeline into ready-to-use form
// controllers. It is the convenience surface; the pieces under pkg/ compose
// directly for callers that need more control.
package formflow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/attach"
	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/formdef"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/submit"
)

// Controller owns the state of one active form screen.
type Controller = controller.Controller

// SubmitResult reports one submission attempt.
type SubmitResult = controller.SubmitResult

// Outcome classifies what the backend made of a submission.
type Outcome = submit.Outcome

// ValidationResult is the client-side verdict over a draft.
type ValidationResult = schema.Result

// Image is one attached image.
type Image = attach.Image

// TokenSource supplies the bearer credential for authenticated endpoints.
type TokenSource = session.TokenSource

// Option customises an App.
type Option func(*App)

// WithStore replaces the embedded form definitions with another store.
func WithStore(store *formdef.Store) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithTransport replaces the HTTP transport, typically with a stub in tests.
func WithTransport(t submit.Transport) Option {
	return func(a *App) {
		a.transport = t
	}
}

// WithTokens sets the credential source consulted for authenticated forms.
// Forms whose definition does not require auth are submitted without it.
func WithTokens(tokens session.TokenSource) Option {
	return func(a *App) {
		a.tokens = tokens
	}
}

// WithPicker sets the image picker handed to every controller.
func WithPicker(picker attach.Picker) Option {
	return func(a *App) {
		a.picker = picker
	}
}

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// App holds the shared collaborators and hands out controllers per form.
type App struct {
	store     *formdef.Store
	baseURL   string
	transport submit.Transport
	tokens    session.TokenSource
	picker    attach.Picker
	logger    *zap.Logger
}

// New builds an App targeting the given backend base URL. Without options it
// serves the embedded form definitions over the production HTTP transport.
func New(baseURL string, options ...Option) (*App, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("formflow: base URL is required")
	}
	a := &App{
		baseURL: baseURL,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	if a.store == nil {
		store, err := formdef.LoadEmbedded()
		if err != nil {
			return nil, fmt.Errorf("formflow: load embedded definitions: %w", err)
		}
		a.store = store
	}
	if a.transport == nil {
		a.transport = &submit.HTTPTransport{}
	}
	return a, nil
}

// Forms lists the available form names in lexical order.
func (a *App) Forms() []string {
	return a.store.Names()
}

// Definition returns the raw definition document for a form.
func (a *App) Definition(name string) (formdef.Definition, bool) {
	return a.store.Definition(name)
}

// Form builds a fresh controller for the named form. Each call returns an
// independent controller with its own draft and attachment state.
func (a *App) Form(name string) (*Controller, error) {
	def, ok := a.store.Definition(name)
	if !ok {
		return nil, fmt.Errorf("formflow: unknown form %q", name)
	}

	cfg, err := formdef.Build(def, a.baseURL)
	if err != nil {
		return nil, err
	}

	pipeline := submit.New(
		submit.WithTransport(a.transport),
		submit.WithLogger(a.logger),
	)

	options := []controller.Option{
		controller.WithPipeline(pipeline),
		controller.WithLogger(a.logger.With(zap.String("form", name))),
	}
	if a.tokens != nil && def.Auth {
		options = append(options, controller.WithTokens(a.tokens))
	}
	if a.picker != nil {
		options = append(options, controller.WithPicker(a.picker))
	}
	return controller.New(cfg, options...)
}
