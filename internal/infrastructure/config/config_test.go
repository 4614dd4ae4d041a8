package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadFrom(t *testing.T, yaml string) *Config {
	t.Helper()
	viper.Reset()
	dir := t.TempDir()
	if yaml != "" {
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		viper.Reset()
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadFrom(t, "")
	if cfg.Anki.Deck != "AgentDeck" {
		t.Fatalf("expected default deck, got %q", cfg.Anki.Deck)
	}
	if cfg.Anki.Timeout != 30*time.Second {
		t.Fatalf("expected default bridge timeout, got %v", cfg.Anki.Timeout)
	}
	if cfg.OutputDir != "./output" {
		t.Fatalf("expected default output dir, got %q", cfg.OutputDir)
	}
}

func TestLoadLegacyFlatKeys(t *testing.T) {
	cfg := loadFrom(t, "text_model: foo/bar\nimage_model: foo/img\noutput_dir: ./cards\n")
	if cfg.OpenRouter.TextModel != "foo/bar" {
		t.Fatalf("flat text_model ignored: %q", cfg.OpenRouter.TextModel)
	}
	if cfg.OpenRouter.ImageModel != "foo/img" {
		t.Fatalf("flat image_model ignored: %q", cfg.OpenRouter.ImageModel)
	}
	if cfg.OutputDir != "./cards" {
		t.Fatalf("output_dir ignored: %q", cfg.OutputDir)
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	cfg := loadFrom(t, "no_such_option: 42\nanki:\n  deck: Japanese\n")
	if cfg.Anki.Deck != "Japanese" {
		t.Fatalf("expected deck override, got %q", cfg.Anki.Deck)
	}
}

func TestLoadNestedDurations(t *testing.T) {
	cfg := loadFrom(t, "openrouter:\n  text_timeout: 10s\n")
	if cfg.OpenRouter.TextTimeout != 10*time.Second {
		t.Fatalf("duration not parsed: %v", cfg.OpenRouter.TextTimeout)
	}
	if cfg.OpenRouter.ImageTimeout != 90*time.Second {
		t.Fatalf("default image timeout lost: %v", cfg.OpenRouter.ImageTimeout)
	}
}
