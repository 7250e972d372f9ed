package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Locale   string
	Storage  Storage
	AI       AI `yaml:"ai"`
	HTTP     HTTP `yaml:"http"`
	Export   Export
	Telegram Bot
	Discord  Bot
}

type Storage struct {
	// Backend is one of sqlite, file or redis.
	Backend    string
	Key        string
	SQLitePath string `yaml:"sqlite_path"`
	Dir        string
	Redis      Redis
}

type Redis struct {
	Addr     string
	Password string
	DB       int `yaml:"db"`
	Prefix   string
}

type AI struct {
	// Provider is one of gemini, openai, moonshot or anthropic.
	Provider string
	Model    string
	APIKey   string `yaml:"api_key"`
}

type HTTP struct {
	Addr      string
	JWTSecret string `yaml:"jwt_secret"`
}

type Export struct {
	Dir         string
	TemplateDir string `yaml:"template_dir"`
	GitSync     bool   `yaml:"git_sync"`
}

type Bot struct {
	Token string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Locale: "ar",
		Storage: Storage{
			Backend:    "sqlite",
			Key:        "smart-notes",
			SQLitePath: "smart-notes.db",
			Dir:        "data",
			Redis:      Redis{Addr: "localhost:6379", Prefix: "smartnotes:"},
		},
		AI:     AI{Provider: "gemini"},
		HTTP:   HTTP{Addr: ":8080"},
		Export: Export{Dir: "vault"},
	}
}

// ReadConfig reads a YAML file over the defaults. A missing file yields the
// defaults.
func ReadConfig(fsys afero.Fs, filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}
	f, err := afero.ReadFile(fsys, filename)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(f, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return cfg, nil
}

var providerKeyEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"moonshot":  "MOONSHOT_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// ApplyEnv overrides secrets with the environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if name, ok := providerKeyEnv[c.AI.Provider]; ok {
		if v := getenv(name); v != "" {
			c.AI.APIKey = v
		}
	}
	if v := getenv("TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := getenv("DISCORD_TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := getenv("SMARTNOTES_JWT_SECRET"); v != "" {
		c.HTTP.JWTSecret = v
	}
}

// Validate checks the storage and AI settings.
func (c *Config) Validate() error {
	name, ok := providerKeyEnv[c.AI.Provider]
	if !ok {
		return fmt.Errorf("unknown AI provider: %s", c.AI.Provider)
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("%s environment variable is required when using %s provider", name, c.AI.Provider)
	}
	return c.ValidateStorage()
}

// ValidateStorage checks only the storage settings, for commands that never
// call the model.
func (c *Config) ValidateStorage() error {
	switch c.Storage.Backend {
	case "sqlite", "file", "redis":
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return errors.New("storage key must not be empty")
	}
	return nil
}
