package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
)

// CurrentVersion is the configuration schema version written by Init.
const CurrentVersion = "1.0"

// Config is the root of tocnav.yaml.
type Config struct {
	Version  string         `yaml:"version"`
	TOC      TOCConfig      `yaml:"toc"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Watch    WatchConfig    `yaml:"watch"`
}

// TOCConfig configures both the generated heading lists and the container
// they are wrapped in.
type TOCConfig struct {
	// Levels lists the heading levels included in the TOC.
	Levels     []int            `yaml:"levels"`
	Nav        bool             `yaml:"nav"`
	CSSClasses CSSClassesConfig `yaml:"css_classes"`

	ContainerClasses []string `yaml:"container_classes"`
	HeaderClasses    []string `yaml:"header_classes"`
	HeaderText       string   `yaml:"header_text"`
}

// CSSClassesConfig names the classes placed on generated lists, items and links.
type CSSClassesConfig struct {
	TOC      string `yaml:"toc"`
	List     string `yaml:"list"`
	ListItem string `yaml:"list_item"`
	Link     string `yaml:"link"`
}

// MarkdownConfig controls goldmark.
type MarkdownConfig struct {
	GFM    bool `yaml:"gfm"`
	Unsafe bool `yaml:"unsafe"`
	// SlugIDs switches heading IDs to transliterated slugs.
	SlugIDs bool `yaml:"slug_ids"`
}

// OutputConfig controls where pages are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Extension string `yaml:"extension"`
	Clean     bool   `yaml:"clean"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce    string `yaml:"debounce"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// DebounceDuration returns the parsed debounce interval. Validate guarantees it parses.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return defaultDebounce
	}
	return d
}

// Load reads, expands, normalizes, defaults and validates a config file.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", configPath).Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			Fatal().WithContext("path", configPath).Build()
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Version != CurrentVersion {
		return nil, errors.ConfigError(fmt.Sprintf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion)).
			WithContext("path", configPath).Build()
	}
	if err := finalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptional behaves like Load but returns Default when the file does not exist.
func LoadOptional(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		loadEnvFile()
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return Load(configPath)
}

func finalize(cfg *Config) error {
	if err := Normalize(cfg); err != nil {
		return err
	}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return Validate(cfg)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}
