package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is probed in the working directory when no --config path is given.
const DefaultFile = "docsight.yaml"

// Config holds the docsight pipeline configuration. Every field has a working
// default; a config file only overrides what it names, and CLI flags override
// the file.
type Config struct {
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Languages   string        `yaml:"ocr_languages"` // Tesseract language spec, e.g. "rus+eng"
	PromptPath  string        `yaml:"prompt_path"`
	Title       string        `yaml:"report_title"`
	OpenAI      OpenAIConfig  `yaml:"openai"`
	Logging     LoggingConfig `yaml:"logging"`
}

// OpenAIConfig holds completion endpoint settings.
type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"` // empty = api.openai.com
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file. An empty path probes DefaultFile
// in the working directory; a missing default file yields pure defaults, while
// an explicitly named file must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	var cfg Config
	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		// Substitute env variables of the form ${VAR}
		data = expandEnvVars(data)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
		// No config file is fine, defaults cover everything.
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4"
	}
	if c.Languages == "" {
		c.Languages = "rus+eng"
	}
	if c.Title == "" {
		c.Title = "Findings Summary Report"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	if strings.TrimSpace(c.Languages) == "" {
		return fmt.Errorf("ocr_languages is required")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
