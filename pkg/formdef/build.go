package formdef

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/submit"
)

var kindByName = map[string]schema.Kind{
	"text":     schema.KindText,
	"digits":   schema.KindDigits,
	"numeric":  schema.KindNumeric,
	"choice":   schema.KindChoice,
	"freeText": schema.KindFreeText,
}

var conventionByName = map[string]submit.NamingConvention{
	"singular": submit.NamingSingular,
	"repeated": submit.NamingRepeated,
	"indexed":  submit.NamingIndexed,
}

// Build compiles a definition into a controller configuration targeting the
// supplied base URL. Schema construction failures (duplicate keys, malformed
// rules) surface here, before any screen state exists.
func Build(def Definition, baseURL string) (controller.Config, error) {
	fields := make([]schema.FieldSpec, 0, len(def.Fields))
	for _, fd := range def.Fields {
		kind, ok := kindByName[fd.Kind]
		if !ok {
			return controller.Config{}, fmt.Errorf("formdef: field %q has unknown kind %q", fd.Key, fd.Kind)
		}
		rule, err := ruleFor(fd)
		if err != nil {
			return controller.Config{}, err
		}
		fields = append(fields, schema.FieldSpec{
			Key:      fd.Key,
			Kind:     kind,
			Label:    fd.Label,
			Required: fd.Required,
			Options:  append([]string(nil), fd.Options...),
			Rule:     rule,
		})
	}

	built, err := schema.New(fields...)
	if err != nil {
		return controller.Config{}, fmt.Errorf("formdef: form %q: %w", def.Form, err)
	}

	slots := make([]controller.SlotConfig, 0, len(def.Slots))
	naming := make(map[string]submit.FileNaming, len(def.Slots))
	for _, sd := range def.Slots {
		convention, ok := conventionByName[sd.Naming]
		if !ok {
			return controller.Config{}, fmt.Errorf("formdef: slot %q has unknown naming %q", sd.Name, sd.Naming)
		}
		slots = append(slots, controller.SlotConfig{Name: sd.Name, MaxCount: sd.Max})
		naming[sd.Name] = submit.FileNaming{Field: sd.Field, Convention: convention}
	}

	return controller.Config{
		Schema: built,
		Slots:  slots,
		Binding: submit.Binding{
			Endpoint:   joinEndpoint(baseURL, def.Endpoint),
			FileNaming: naming,
		},
	}, nil
}

func joinEndpoint(baseURL, endpoint string) string {
	if baseURL == "" {
		return endpoint
	}
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}
