// Command formflow fills and submits one of the foundation's forms from the
// terminal. Fields are prompted interactively with the same validation rules
// the form screens apply, attachments come from a local directory, and the
// classified outcome is printed at the end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/attach"
	"github.com/goliatone/go-formflow/pkg/config"
	"github.com/goliatone/go-formflow/pkg/formdef"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/submit"
)

func main() {
	configPath := flag.String("config", "", "config file path (optional; FORMFLOW_* env vars always apply)")
	formsDir := flag.String("forms", "", "directory of form definitions (defaults to the embedded set)")
	imagesDir := flag.String("images", ".", "directory the image picker reads from")
	listForms := flag.Bool("list", false, "list available forms and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("formflow: %v", err)
	}

	logger, err := buildLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("formflow: logger: %v", err)
	}
	defer logger.Sync()

	options, err := appOptions(cfg, *formsDir, *imagesDir, logger)
	if err != nil {
		log.Fatalf("formflow: %v", err)
	}

	app, err := formflow.New(cfg.API.BaseURL, options...)
	if err != nil {
		log.Fatalf("formflow: %v", err)
	}

	if *listForms {
		for _, name := range app.Forms() {
			fmt.Println(name)
		}
		return
	}

	name := flag.Arg(0)
	if name == "" {
		if name, err = chooseForm(app.Forms()); err != nil {
			exitOnPromptErr(err)
		}
	}

	if err := run(context.Background(), app, name); err != nil {
		exitOnPromptErr(err)
	}
}

// appOptions assembles the App collaborators from configuration and flags:
// the directory-backed picker, the production transport, an optional
// definitions directory, and the credential source when a token is set.
func appOptions(cfg *config.Config, formsDir, imagesDir string, logger *zap.Logger) ([]formflow.Option, error) {
	options := []formflow.Option{
		formflow.WithLogger(logger),
		formflow.WithPicker(&attach.DirPicker{Dir: imagesDir}),
		formflow.WithTransport(&submit.HTTPTransport{}),
	}
	if formsDir != "" {
		store, err := formdef.LoadFS(os.DirFS(formsDir))
		if err != nil {
			return nil, fmt.Errorf("load definitions: %w", err)
		}
		options = append(options, formflow.WithStore(store))
	}
	if cfg.Session.Token != "" {
		options = append(options, formflow.WithTokens(
			session.JWT(session.Static(cfg.Session.Token), session.WithLeeway(cfg.Session.ExpiryLeeway)),
		))
	}
	return options, nil
}

func run(ctx context.Context, app *formflow.App, name string) error {
	def, ok := app.Definition(name)
	if !ok {
		return fmt.Errorf("unknown form %q", name)
	}
	controller, err := app.Form(name)
	if err != nil {
		return err
	}
	defer controller.Close()

	if def.Title != "" {
		fmt.Println(def.Title)
	}

	// Compiled once so prompts validate with the same rules Submit applies.
	compiled, err := formdef.Build(def, "https://placeholder.invalid")
	if err != nil {
		return err
	}

	for _, field := range def.Fields {
		spec, _ := compiled.Schema.Field(field.Key)
		value, err := promptField(field, spec)
		if err != nil {
			return err
		}
		if err := controller.SetField(field.Key, value); err != nil {
			return err
		}
	}

	for _, slot := range def.Slots {
		if err := promptSlot(ctx, controller, slot); err != nil {
			return err
		}
	}

	if validation := controller.Validate(); !validation.Valid() {
		printFieldErrors(validation.Errors())
		return errors.New("the form is not ready to submit")
	}

	result, err := controller.Submit(ctx)
	if err != nil {
		return err
	}
	printOutcome(result)
	return nil
}

func chooseForm(names []string) (string, error) {
	var name string
	prompt := &survey.Select{
		Message:  "Which form?",
		Options:  names,
		PageSize: 12,
	}
	return name, survey.AskOne(prompt, &name)
}

func promptField(field formdef.FieldDef, spec schema.FieldSpec) (string, error) {
	message := field.Label
	if message == "" {
		message = field.Key
	}

	var opts []survey.AskOpt
	if spec.Rule != nil {
		opts = append(opts, survey.WithValidator(ruleValidator(spec.Rule)))
	}

	var value string
	switch {
	case field.Rule == formdef.RulePasswordStrict || field.Rule == formdef.RulePasswordMinLength:
		return value, survey.AskOne(&survey.Password{Message: message}, &value, opts...)
	case field.Kind == "choice":
		return value, survey.AskOne(&survey.Select{Message: message, Options: field.Options}, &value, opts...)
	case field.Kind == "freeText":
		return value, survey.AskOne(&survey.Multiline{Message: message}, &value, opts...)
	default:
		return value, survey.AskOne(&survey.Input{Message: message}, &value, opts...)
	}
}

func ruleValidator(rule schema.Rule) survey.Validator {
	return func(answer interface{}) error {
		value, ok := answer.(string)
		if !ok {
			if option, isOption := answer.(survey.OptionAnswer); isOption {
				value = option.Value
			}
		}
		return rule(value)
	}
}

func promptSlot(ctx context.Context, c *formflow.Controller, slot formdef.SlotDef) error {
	wants := false
	message := fmt.Sprintf("Attach images to %q (up to %d)?", slot.Name, slot.Max)
	if err := survey.AskOne(&survey.Confirm{Message: message}, &wants); err != nil {
		return err
	}
	if !wants {
		return nil
	}

	result, err := c.PickImages(ctx, slot.Name, slot.Max > 1)
	if err != nil {
		return err
	}
	fmt.Printf("attached %d image(s) to %s\n", len(result.Accepted), slot.Name)
	if result.Rejected > 0 {
		fmt.Printf("%d image(s) did not fit, the slot holds %d\n", result.Rejected, slot.Max)
	}
	return nil
}

func printFieldErrors(errs map[string]string) {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("  %s: %s\n", key, errs[key])
	}
}

func printOutcome(result formflow.SubmitResult) {
	if result.Discarded || result.Outcome == nil {
		fmt.Println("submission discarded")
		return
	}
	outcome := result.Outcome
	switch outcome.Kind {
	case submit.OutcomeSuccess:
		fmt.Println("submitted successfully")
		if message, ok := outcome.Payload["message"].(string); ok && message != "" {
			fmt.Println(message)
		}
	case submit.OutcomeUnauthorized:
		fmt.Println("the backend rejected the credential; sign in again")
	case submit.OutcomeValidationRejected:
		fmt.Println("the backend rejected the submission:")
		for field, messages := range outcome.FieldErrors {
			fmt.Printf("  %s: %s\n", field, strings.Join(messages, "; "))
		}
		for _, message := range outcome.FormErrors {
			fmt.Printf("  %s\n", message)
		}
	case submit.OutcomeTransportFailure:
		fmt.Printf("submission failed: %s\n", outcome.Reason)
		fmt.Println("nothing was retried; check the connection and submit again")
	}
}

func buildLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	return zcfg.Build()
}

func exitOnPromptErr(err error) {
	if errors.Is(err, terminal.InterruptErr) {
		os.Exit(130)
	}
	log.Fatalf("formflow: %v", err)
}
