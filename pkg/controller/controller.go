// Package controller binds a schema, a slot configuration, and an endpoint
// binding into the single state owner for one active form screen. Each
// Controller owns its Draft and slots exclusively; nothing is shared across
// screens and nothing is persisted.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/attach"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/submit"
)

var (
	// ErrSubmissionInFlight is returned when Submit is called while an
	// earlier submission has not finished. Callers disable the submit
	// trigger while a submission runs; this guard backs that up.
	ErrSubmissionInFlight = errors.New("controller: a submission is already in flight")

	// ErrClosed is returned for calls made after Close.
	ErrClosed = errors.New("controller: form is closed")
)

// SlotConfig declares one attachment slot for the form.
type SlotConfig struct {
	Name     string
	MaxCount int
}

// Config carries everything a screen needs to declare: its fields, its
// attachment slots, and where the submission goes.
type Config struct {
	Schema  schema.Schema
	Slots   []SlotConfig
	Binding submit.Binding
}

// SubmitResult reports one Submit call. Validation is always populated;
// Outcome is nil when client-side validation blocked the submission.
type SubmitResult struct {
	Validation schema.Result
	Outcome    *submit.Outcome

	// Discarded is true when the result arrived after Close; no state was
	// mutated and the caller should ignore the outcome.
	Discarded bool
}

// Option customises the controller.
type Option func(*Controller)

// WithPipeline injects the submission pipeline. Defaults to submit.New().
func WithPipeline(p *submit.Pipeline) Option {
	return func(c *Controller) {
		c.pipeline = p
	}
}

// WithTokens injects the session credential collaborator. Without one, every
// submission goes out unauthenticated.
func WithTokens(tokens session.TokenSource) Option {
	return func(c *Controller) {
		c.tokens = tokens
	}
}

// WithPicker injects the image picker collaborator used by PickImages.
func WithPicker(picker attach.Picker) Option {
	return func(c *Controller) {
		c.picker = picker
	}
}

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller is the thin glue between the schema engine, the attachment
// manager, and the submission pipeline for one form instance.
type Controller struct {
	schema   schema.Schema
	binding  submit.Binding
	draft    *schema.Draft
	slots    *attach.Manager
	pipeline *submit.Pipeline
	tokens   session.TokenSource
	picker   attach.Picker
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight bool
	closed   bool
}

// New constructs a controller, registering every declared slot.
func New(cfg Config, options ...Option) (*Controller, error) {
	c := &Controller{
		schema:  cfg.Schema,
		binding: cfg.Binding,
		draft:   schema.NewDraft(),
		slots:   attach.NewManager(),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.pipeline == nil {
		c.pipeline = submit.New()
	}

	for _, slot := range cfg.Slots {
		if err := c.slots.DefineSlot(slot.Name, slot.MaxCount); err != nil {
			return nil, fmt.Errorf("controller: %w", err)
		}
	}
	return c, nil
}

// SetField records a field edit. Edits may interleave freely with an
// in-flight submission; the dispatched body was snapshotted at submit time
// and is unaffected.
func (c *Controller) SetField(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.draft.Set(key, value)
	return nil
}

// Field returns the current draft value for a key.
func (c *Controller) Field(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Get(key)
}

// PickImages asks the picker for images and adds them to the slot, reporting
// how many were rejected for capacity.
func (c *Controller) PickImages(ctx context.Context, slotName string, multiple bool) (attach.AddResult, error) {
	if c.picker == nil {
		return attach.AddResult{}, errors.New("controller: no picker configured")
	}
	if c.isClosed() {
		return attach.AddResult{}, ErrClosed
	}

	images, err := c.picker.PickFromLibrary(ctx, multiple)
	if err != nil {
		return attach.AddResult{}, fmt.Errorf("controller: pick images: %w", err)
	}
	if len(images) == 0 {
		return attach.AddResult{}, nil
	}
	return c.AddImages(slotName, images...)
}

// AddImages adds already-picked images to a slot.
func (c *Controller) AddImages(slotName string, images ...attach.Image) (attach.AddResult, error) {
	if c.isClosed() {
		return attach.AddResult{}, ErrClosed
	}
	result, err := c.slots.Add(slotName, images...)
	if err != nil {
		return attach.AddResult{}, err
	}
	if result.Rejected > 0 {
		c.logger.Debug("images rejected for capacity",
			zap.String("slot", slotName),
			zap.Int("rejected", result.Rejected))
	}
	return result, nil
}

// RemoveImage removes one image by id. Removing an absent id is a no-op.
func (c *Controller) RemoveImage(slotName, localID string) error {
	if c.isClosed() {
		return ErrClosed
	}
	return c.slots.Remove(slotName, localID)
}

// Snapshot returns the current read-only view of the attachment slots.
func (c *Controller) Snapshot() attach.Snapshot {
	return c.slots.Snapshot()
}

// Validate evaluates the current draft without submitting.
func (c *Controller) Validate() schema.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return schema.Validate(c.schema, c.draft)
}

// Submit validates the draft and, only when valid, runs the submission
// pipeline over an atomically captured snapshot of fields and images.
// On success, the draft and slots are reset; on any failure they are left
// untouched so the user can correct and resubmit. There is no automatic
// retry.
func (c *Controller) Submit(ctx context.Context) (SubmitResult, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return SubmitResult{}, ErrClosed
	}
	if c.inFlight {
		c.mu.Unlock()
		return SubmitResult{}, ErrSubmissionInFlight
	}

	validation := schema.Validate(c.schema, c.draft)
	if !validation.Valid() {
		c.mu.Unlock()
		c.logger.Debug("submission blocked by validation",
			zap.Int("errors", len(validation.Errors())))
		return SubmitResult{Validation: validation}, nil
	}

	snapshot := c.slots.Snapshot()
	c.inFlight = true
	c.mu.Unlock()

	token := ""
	if c.tokens != nil {
		if t, ok := c.tokens.Token(); ok {
			token = t
		}
	}

	outcome, err := c.pipeline.Submit(ctx, c.binding, validation, snapshot, token)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		return SubmitResult{Validation: validation}, err
	}
	if c.closed {
		// The screen went away while the request was in flight; the outcome
		// is discarded and no state is touched.
		return SubmitResult{Validation: validation, Outcome: &outcome, Discarded: true}, nil
	}
	if outcome.IsSuccess() {
		c.draft.Reset()
		c.slots.Reset()
	}
	return SubmitResult{Validation: validation, Outcome: &outcome}, nil
}

// Close marks the controller unmounted. A submission already in flight is
// not interrupted, but its result will be discarded and no further state
// changes happen.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
