package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultRootName is used when neither flags, environment nor file name a root class.
const DefaultRootName = "User"

// Environment variables consulted by ApplyEnv.
const (
	EnvRootName        = "DARTYPER_ROOT_NAME"
	EnvDebug           = "DARTYPER_DEBUG"
	EnvCamelCaseFields = "DARTYPER_CAMEL_CASE_FIELDS"
)

// Config represents the complete configuration for dartyper
type Config struct {
	RootName   string           `yaml:"root_name"`
	Formatting FormattingConfig `yaml:"formatting"`
	Naming     NamingConfig     `yaml:"naming"`
	Output     OutputConfig     `yaml:"output"`
	Cache      CacheConfig      `yaml:"cache"`
	Watch      WatchConfig      `yaml:"watch"`
	Dev        DevConfig        `yaml:"dev"`
}

// FormattingConfig controls the optional external formatter pass
type FormattingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Command string `yaml:"command"`
}

// NamingConfig controls field and class naming
type NamingConfig struct {
	CamelCaseFields  bool              `yaml:"camel_case_fields"`
	FieldMappings    map[string]string `yaml:"field_mappings"`
	SmartSingularize bool              `yaml:"smart_singularize"`
}

// OutputConfig controls what surrounds the generated classes
type OutputConfig struct {
	FileHeader string `yaml:"file_header"`
	ListHelper bool   `yaml:"list_helper"`
}

// CacheConfig sizes the conversion memo used in watch mode
type CacheConfig struct {
	Size int `yaml:"size"`
}

// WatchConfig controls watch mode
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		RootName: DefaultRootName,
		Formatting: FormattingConfig{
			Enabled: false,
			Command: "dart",
		},
		Naming: NamingConfig{
			CamelCaseFields:  false,
			FieldMappings:    make(map[string]string),
			SmartSingularize: false,
		},
		Output: OutputConfig{
			ListHelper: true,
		},
		Cache: CacheConfig{
			Size: 64,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work
func (c *Config) Validate() error {
	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if c.Formatting.Enabled && c.Formatting.Command == "" {
		return fmt.Errorf("formatting.command is required when formatting is enabled")
	}
	if c.Naming.FieldMappings == nil {
		c.Naming.FieldMappings = make(map[string]string)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".dartyper.yml", ".dartyper.yaml", "dartyper.yml", "dartyper.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// ApplyEnv loads a .env file from the working directory, if any, and applies
// DARTYPER_* variables on top of c. Values that do not parse are reported.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	if v := os.Getenv(EnvRootName); v != "" {
		c.RootName = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvDebug, v, err)
		}
		c.Dev.Debug = b
	}
	if v := os.Getenv(EnvCamelCaseFields); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvCamelCaseFields, v, err)
		}
		c.Naming.CamelCaseFields = b
	}
	return nil
}

// Overrides carries command-line values. Zero values leave the config alone.
type Overrides struct {
	RootName  string
	Format    bool
	CamelCase bool
	Debug     bool
}

// Load builds the effective configuration: defaults, then the config file
// (explicit path or discovered), then environment, then command-line flags.
func Load(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if o.RootName != "" {
		cfg.RootName = o.RootName
	}
	if o.Format {
		cfg.Formatting.Enabled = true
	}
	if o.CamelCase {
		cfg.Naming.CamelCaseFields = true
	}
	if o.Debug {
		cfg.Dev.Debug = true
	}

	return cfg, nil
}

// Fingerprint summarizes the settings that change generated output, for use
// in cache keys.
func (c *Config) Fingerprint() string {
	mappings, _ := yaml.Marshal(c.Naming.FieldMappings)
	return fmt.Sprintf("camel=%t;smart=%t;list=%t;header=%q;fmt=%t:%s;map=%s",
		c.Naming.CamelCaseFields,
		c.Naming.SmartSingularize,
		c.Output.ListHelper,
		c.Output.FileHeader,
		c.Formatting.Enabled,
		c.Formatting.Command,
		mappings,
	)
}
