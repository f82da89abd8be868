package openapi

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formflow/pkg/formdef"
)

// ErrOperationNotFound reports that no operation in the document carries the
// requested operationId.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// Option adjusts how a definition is derived from a document.
type Option func(*converter)

// WithFormName sets the registered form name. The default is the operationId.
func WithFormName(name string) Option {
	return func(c *converter) {
		c.formName = name
	}
}

// WithSlotNaming declares the wire naming convention for a binary property.
// Every binary property needs a declaration; conversion fails without one
// because the backend's conventions vary per endpoint and cannot be read off
// the schema.
func WithSlotNaming(property, naming string) Option {
	return func(c *converter) {
		c.naming[property] = naming
	}
}

// WithSlotField overrides the multipart field name for a binary property when
// the backend expects a spelling that differs from the schema property.
func WithSlotField(property, field string) Option {
	return func(c *converter) {
		c.fieldNames[property] = field
	}
}

type converter struct {
	formName   string
	naming     map[string]string
	fieldNames map[string]string
}

// matches exact-length digit patterns such as ^[0-9]{12}$ or ^\d{10}$.
var digitsPattern = regexp.MustCompile(`^\^(?:\[0-9\]|\\d)\{([0-9]+)\}\$$`)

// DefinitionFromDocument locates the operation with the given operationId in
// the raw OpenAPI document and derives a form definition from its
// multipart/form-data request body. String and numeric properties become
// fields, binary properties become attachment slots, and the operation's path
// becomes the definition endpoint.
func DefinitionFromDocument(ctx context.Context, raw []byte, operationID string, opts ...Option) (formdef.Definition, error) {
	if len(raw) == 0 {
		return formdef.Definition{}, errors.New("openapi: document payload is empty")
	}

	c := &converter{
		naming:     make(map[string]string),
		fieldNames: make(map[string]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return formdef.Definition{}, fmt.Errorf("openapi: load document: %w", err)
	}

	path, operation, err := findOperation(spec, operationID)
	if err != nil {
		return formdef.Definition{}, err
	}

	body, err := multipartSchema(operation)
	if err != nil {
		return formdef.Definition{}, fmt.Errorf("openapi: operation %q: %w", operationID, err)
	}

	def := formdef.Definition{
		Form:     operationID,
		Title:    operation.Summary,
		Endpoint: path,
		Auth:     requiresAuth(spec, operation),
	}
	if c.formName != "" {
		def.Form = c.formName
	}

	required := make(map[string]bool, len(body.Required))
	for _, key := range body.Required {
		required[key] = true
	}

	keys := make([]string, 0, len(body.Properties))
	for key := range body.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		ref := body.Properties[key]
		if ref == nil || ref.Value == nil {
			return formdef.Definition{}, fmt.Errorf("openapi: property %q has no resolved schema", key)
		}
		value := ref.Value

		switch {
		case isBinary(value):
			slot, err := c.slotFor(key, 1)
			if err != nil {
				return formdef.Definition{}, err
			}
			def.Slots = append(def.Slots, slot)
		case isBinaryArray(value):
			max, err := arrayCapacity(key, value)
			if err != nil {
				return formdef.Definition{}, err
			}
			slot, err := c.slotFor(key, max)
			if err != nil {
				return formdef.Definition{}, err
			}
			def.Slots = append(def.Slots, slot)
		default:
			field, err := fieldFor(key, value, required[key])
			if err != nil {
				return formdef.Definition{}, err
			}
			def.Fields = append(def.Fields, field)
		}
	}

	if len(def.Fields) == 0 && len(def.Slots) == 0 {
		return formdef.Definition{}, fmt.Errorf("openapi: operation %q request body declares no properties", operationID)
	}
	return def, nil
}

func findOperation(spec *openapi3.T, operationID string) (string, *openapi3.Operation, error) {
	if spec.Paths == nil {
		return "", nil, ErrOperationNotFound
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete,
			item.Patch, item.Head, item.Options, item.Trace,
		} {
			if operation != nil && operation.OperationID == operationID {
				return path, operation, nil
			}
		}
	}
	return "", nil, fmt.Errorf("openapi: %w: %q", ErrOperationNotFound, operationID)
}

func multipartSchema(operation *openapi3.Operation) (*openapi3.Schema, error) {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil, errors.New("operation has no request body")
	}
	mt, ok := operation.RequestBody.Value.Content["multipart/form-data"]
	if !ok {
		return nil, errors.New("request body does not accept multipart/form-data")
	}
	if mt.Schema == nil || mt.Schema.Value == nil {
		return nil, errors.New("multipart/form-data content has no schema")
	}
	return mt.Schema.Value, nil
}

func requiresAuth(spec *openapi3.T, operation *openapi3.Operation) bool {
	if operation.Security != nil {
		return len(*operation.Security) > 0
	}
	return len(spec.Security) > 0
}

func isBinary(value *openapi3.Schema) bool {
	return value.Type != nil && value.Type.Is("string") && value.Format == "binary"
}

func isBinaryArray(value *openapi3.Schema) bool {
	if value.Type == nil || !value.Type.Is("array") {
		return false
	}
	return value.Items != nil && value.Items.Value != nil && isBinary(value.Items.Value)
}

func arrayCapacity(key string, value *openapi3.Schema) (int, error) {
	if value.MaxItems == nil {
		return 0, fmt.Errorf("openapi: binary array property %q needs maxItems to bound slot capacity", key)
	}
	max := int(*value.MaxItems)
	if max < 1 {
		return 0, fmt.Errorf("openapi: binary array property %q has maxItems %d", key, max)
	}
	return max, nil
}

func (c *converter) slotFor(property string, max int) (formdef.SlotDef, error) {
	naming, ok := c.naming[property]
	if !ok {
		return formdef.SlotDef{}, fmt.Errorf("openapi: binary property %q has no declared naming; use WithSlotNaming", property)
	}
	return formdef.SlotDef{
		Name:   property,
		Max:    max,
		Naming: naming,
		Field:  c.fieldNames[property],
	}, nil
}

func fieldFor(key string, value *openapi3.Schema, required bool) (formdef.FieldDef, error) {
	field := formdef.FieldDef{
		Key:      key,
		Label:    value.Title,
		Required: required,
	}

	if len(value.Enum) > 0 {
		field.Kind = "choice"
		field.Rule = formdef.RuleNonEmptyChoice
		for _, entry := range value.Enum {
			option, ok := entry.(string)
			if !ok {
				return formdef.FieldDef{}, fmt.Errorf("openapi: property %q has a non-string enum entry %v", key, entry)
			}
			field.Options = append(field.Options, option)
		}
		return field, nil
	}

	switch {
	case value.Type != nil && (value.Type.Is("integer") || value.Type.Is("number")):
		field.Kind = "numeric"
		if value.Min != nil && value.Max != nil {
			field.Rule = formdef.RuleNumericRange
			field.Params = map[string]int{
				"min": int(*value.Min),
				"max": int(*value.Max),
			}
		}
	case value.Type == nil || value.Type.Is("string"):
		field.Kind = "text"
		if match := digitsPattern.FindStringSubmatch(value.Pattern); match != nil {
			length, err := strconv.Atoi(match[1])
			if err == nil {
				field.Kind = "digits"
				field.Rule = formdef.RuleExactDigits
				field.Params = map[string]int{"length": length}
				break
			}
		}
		switch {
		case value.Format == "email":
			field.Rule = formdef.RuleEmailShape
		case multiline(value):
			field.Kind = "freeText"
		case value.MinLength > 0:
			field.Rule = formdef.RuleMinLength
			field.Params = map[string]int{"length": int(value.MinLength)}
		}
	default:
		return formdef.FieldDef{}, fmt.Errorf("openapi: property %q has unsupported type", key)
	}
	return field, nil
}

// multiline reports whether a string property opts into free-form text via
// the x-multiline vendor extension.
func multiline(value *openapi3.Schema) bool {
	raw, ok := value.Extensions["x-multiline"]
	if !ok {
		return false
	}
	flag, ok := raw.(bool)
	return ok && flag
}
