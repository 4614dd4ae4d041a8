package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Anki       AnkiConfig       `mapstructure:"anki"`
	OutputDir  string           `mapstructure:"output_dir"`
	HistoryDB  string           `mapstructure:"history_db"`
	Log        LogConfig        `mapstructure:"log"`
}

// OpenRouterConfig holds generation endpoint configuration. The API key is
// read only from the OPENROUTER_API_KEY environment variable.
type OpenRouterConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"-"`
	TextModel    string        `mapstructure:"text_model"`
	ImageModel   string        `mapstructure:"image_model"`
	TextTimeout  time.Duration `mapstructure:"text_timeout"`
	ImageTimeout time.Duration `mapstructure:"image_timeout"`
}

// AnkiConfig holds local bridge configuration.
type AnkiConfig struct {
	URL       string        `mapstructure:"url"`
	Deck      string        `mapstructure:"deck"`
	NoteModel string        `mapstructure:"note_model"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Sync      bool          `mapstructure:"sync"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from config.yaml and environment variables.
// Unknown keys are ignored; missing keys fall back to defaults.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	applyLegacyKeys(&config)
	config.OpenRouter.APIKey = viper.GetString("OPENROUTER_API_KEY")

	return &config, nil
}

// applyLegacyKeys honors the flat keys of the original config surface
// (text_model, image_model, output_dir at top level).
func applyLegacyKeys(config *Config) {
	if v := viper.GetString("text_model"); v != "" {
		config.OpenRouter.TextModel = v
	}
	if v := viper.GetString("image_model"); v != "" {
		config.OpenRouter.ImageModel = v
	}
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("openrouter.text_model", "openai/gpt-4o-mini")
	viper.SetDefault("openrouter.image_model", "google/gemini-2.5-flash-image-preview")
	viper.SetDefault("openrouter.text_timeout", 45*time.Second)
	viper.SetDefault("openrouter.image_timeout", 90*time.Second)

	viper.SetDefault("anki.url", "http://localhost:8765")
	viper.SetDefault("anki.deck", "AgentDeck")
	viper.SetDefault("anki.note_model", "Basic")
	viper.SetDefault("anki.timeout", 30*time.Second)
	viper.SetDefault("anki.sync", false)

	viper.SetDefault("output_dir", "./output")
	viper.SetDefault("history_db", "./ankigen.db")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
}
