package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/nullnotice/internal/archive"
	"github.com/cleared-dev/nullnotice/internal/letter"
	"github.com/cleared-dev/nullnotice/internal/model"
)

// FileName is the default config file name.
const FileName = "nullnotice.yaml"

// Config represents the top-level nullnotice.yaml configuration.
type Config struct {
	InputFile   string         `yaml:"input_file"`
	Entities    []EntityConfig `yaml:"entities"`
	Letter      LetterConfig   `yaml:"letter"`
	Archive     ArchiveConfig  `yaml:"archive"`
	DispatchLog string         `yaml:"dispatch_log,omitempty"` // empty disables the log
	Log         LogConfig      `yaml:"log"`
}

// EntityConfig binds a sending entity to a notification channel.
type EntityConfig struct {
	Name    string `yaml:"name"`
	Channel string `yaml:"channel"`
}

// LetterConfig controls letter rendering.
type LetterConfig struct {
	Tone         string              `yaml:"tone"`
	ContactToken string              `yaml:"contact_token"`
	Signers      map[string][]string `yaml:"signers,omitempty"` // tone -> signature lines
	TemplatesDir string              `yaml:"templates_dir,omitempty"`
}

// ArchiveConfig controls on-disk copies of letters.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Load reads a nullnotice.yaml file from disk. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		InputFile: "Nulidad.txt",
		Entities: []EntityConfig{
			{Name: "Entidad 1", Channel: string(model.ChannelEmail)},
			{Name: "Entidad 2", Channel: string(model.ChannelFax)},
		},
		Letter: LetterConfig{
			Tone:         string(letter.ToneEntity),
			ContactToken: letter.DefaultContactToken,
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Dir:     archive.DefaultDir,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks entity channels and the default tone.
func (c *Config) Validate() error {
	if len(c.Entities) == 0 {
		return errors.New("at least one entity is required")
	}
	for i, e := range c.Entities {
		if e.Name == "" {
			return fmt.Errorf("entity %d: name is required", i+1)
		}
		if !model.Channel(e.Channel).Valid() {
			return fmt.Errorf("entity %q: unknown channel %q", e.Name, e.Channel)
		}
	}
	if c.Letter.Tone != "" {
		if _, err := letter.ParseTone(c.Letter.Tone); err != nil {
			return err
		}
	}
	for name := range c.Letter.Signers {
		if _, err := letter.ParseTone(name); err != nil {
			return fmt.Errorf("letter signers: %w", err)
		}
	}
	return nil
}

// SignerMap returns the configured signature lines keyed by tone.
func (l LetterConfig) SignerMap() map[letter.Tone][]string {
	out := make(map[letter.Tone][]string, len(l.Signers))
	for name, lines := range l.Signers {
		if tone, err := letter.ParseTone(name); err == nil {
			out[tone] = lines
		}
	}
	return out
}

// EntityList returns the configured entities in menu order.
func (c *Config) EntityList() []model.Entity {
	out := make([]model.Entity, len(c.Entities))
	for i, e := range c.Entities {
		out[i] = model.Entity{Name: e.Name, Channel: model.Channel(strings.ToLower(strings.TrimSpace(e.Channel)))}
	}
	return out
}
