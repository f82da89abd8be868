package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/config"
)

func TestAppOptionsBuildWorkingApp(t *testing.T) {
	dir := t.TempDir()
	def := `
form: feedback
endpoint: /api/v1/feedback/create
fields:
  - key: subject
    kind: text
    required: true
`
	if err := os.WriteFile(filepath.Join(dir, "feedback.yaml"), []byte(def), 0o600); err != nil {
		t.Fatalf("write definition: %v", err)
	}

	cfg := &config.Config{}
	cfg.API.BaseURL = "https://api.example.org"
	cfg.Session.Token = "abc123"
	cfg.Session.ExpiryLeeway = 30 * time.Second

	options, err := appOptions(cfg, dir, t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("appOptions() error = %v", err)
	}

	app, err := formflow.New(cfg.API.BaseURL, options...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	forms := app.Forms()
	if len(forms) != 1 || forms[0] != "feedback" {
		t.Fatalf("forms = %v, want the definitions directory to win", forms)
	}
	if _, err := app.Form("feedback"); err != nil {
		t.Fatalf("Form() error = %v", err)
	}
}

func TestAppOptionsRejectsBadDefinitionsDir(t *testing.T) {
	cfg := &config.Config{}
	cfg.API.BaseURL = "https://api.example.org"

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("form: [not a string"), 0o600); err != nil {
		t.Fatalf("write definition: %v", err)
	}

	if _, err := appOptions(cfg, dir, ".", zap.NewNop()); err == nil {
		t.Fatal("expected error for a malformed definitions directory")
	}
}

func TestBuildLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, err := buildLogger(config.LoggerConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("buildLogger(%q) error = %v", format, err)
		}
		if logger == nil {
			t.Fatalf("buildLogger(%q) returned nil", format)
		}
	}

	if _, err := buildLogger(config.LoggerConfig{Level: "shout", Format: "console"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
