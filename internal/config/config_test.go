package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	v, err := Load(filepath.Join(t.TempDir(), "millwright.yaml"))
	if err == nil {
		t.Fatal("Load accepted an explicit path to a missing file")
	}

	v, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := v.GetString("logging.level"); got != "info" {
		t.Errorf("logging.level = %q, want info", got)
	}
	if got := v.GetString("modules.predictor.artifact_dir"); got != "models" {
		t.Errorf("artifact_dir = %q, want models", got)
	}
	if got := v.GetDuration("modules.fleet.refresh_interval"); got != 30*time.Second {
		t.Errorf("refresh_interval = %v, want 30s", got)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "millwright.yaml")
	content := "logging:\n  level: debug\nmodules:\n  predictor:\n    strict_validation: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := v.GetString("logging.level"); got != "debug" {
		t.Errorf("logging.level = %q, want debug", got)
	}
	if v.GetBool("modules.predictor.strict_validation") {
		t.Error("strict_validation = true, want false from file")
	}
	// Untouched keys keep their defaults.
	if got := v.GetString("modules.predictor.currency"); got != "INR" {
		t.Errorf("currency = %q, want INR", got)
	}
}

func TestViperConfig_Sub(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("modules.predictor.artifact_dir", "/opt/models")

	cfg := New(v)
	sub := cfg.Sub("modules.predictor")
	if got := sub.GetString("artifact_dir"); got != "/opt/models" {
		t.Errorf("sub artifact_dir = %q, want /opt/models", got)
	}

	// Missing sections yield an empty config, not nil.
	empty := cfg.Sub("modules.nonexistent")
	if empty == nil {
		t.Fatal("Sub returned nil for a missing section")
	}
	if empty.IsSet("anything") {
		t.Error("empty sub reports keys as set")
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "defaults", level: "info", format: "json"},
		{name: "console debug", level: "debug", format: "console"},
		{name: "empty format is json", level: "warn", format: ""},
		{name: "bad level", level: "verbose", format: "json", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := viper.New()
			v.Set("logging.level", tt.level)
			v.Set("logging.format", tt.format)

			logger, err := NewLogger(v)
			if tt.wantErr {
				if err == nil {
					t.Error("NewLogger succeeded with invalid settings")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger: %v", err)
			}
			if logger == nil {
				t.Fatal("NewLogger returned nil logger")
			}
		})
	}
}
