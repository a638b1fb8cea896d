package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. RETHEME_DIR or RETHEME_FLOWS_FILE.
const EnvPrefix = "RETHEME_"

// Settings controls where retheme looks for pages and how it converts them.
type Settings struct {
	Dir         string `yaml:"dir" koanf:"dir"`
	Pattern     string `yaml:"pattern" koanf:"pattern"`
	FlowsFile   string `yaml:"flows_file,omitempty" koanf:"flows_file"`
	TemplateDir string `yaml:"template_dir,omitempty" koanf:"template_dir"`
	Sanitize    bool   `yaml:"sanitize" koanf:"sanitize"`
	Verify      bool   `yaml:"verify" koanf:"verify"`
	Port        int    `yaml:"port" koanf:"port"`
	LogLevel    string `yaml:"log_level" koanf:"log_level"`
}

// DefaultSettings returns the settings used when nothing overrides them.
func DefaultSettings() *Settings {
	return &Settings{
		Dir:      "trading-flows",
		Pattern:  "*.html",
		Verify:   true,
		Port:     1313,
		LogLevel: "info",
	}
}

// LoadSettings starts from the defaults, overlays the YAML file at path if it
// exists, then overlays RETHEME_* environment variables. A .env file in the
// working directory is loaded into the environment first.
func LoadSettings(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")
	s := DefaultSettings()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading settings %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing settings %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("unmarshalling settings: %w", err)
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Dir) == "" {
		return fmt.Errorf("dir is required")
	}
	if s.Pattern == "" || !doublestar.ValidatePattern(s.Pattern) {
		return fmt.Errorf("invalid page pattern %q", s.Pattern)
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	return nil
}

// Save writes the settings to path as YAML.
func (s *Settings) Save(path string) error {
	data, err := yamlv3.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings to %s: %w", path, err)
	}
	return nil
}
