// Package config provides configuration management for vendorjs.
// Settings come from built-in defaults, the user's YAML config file, an
// optional per-project TOML file and VENDORJS_* environment variables, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/vendorjs/internal/util"
)

// Config represents the complete vendorjs configuration.
type Config struct {
	// Paths locates the package groups and the local resources
	Paths PathsConfig `yaml:"paths" toml:"paths"`

	// Presets are named shorthands for a package group and cutoff
	Presets map[string]Preset `yaml:"presets" toml:"presets"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output" toml:"output"`

	// Timestamp configures how cutoff values are interpreted
	Timestamp TimestampConfig `yaml:"timestamp" toml:"timestamp"`

	// Log configures diagnostic logging on stderr
	Log LogConfig `yaml:"log" toml:"log"`
}

// PathsConfig holds project-relative locations.
type PathsConfig struct {
	// VendorDir holds one directory per package group
	VendorDir string `yaml:"vendor_dir" toml:"vendor_dir"`
	// ResourcesDir is the project's own JS resources tree
	ResourcesDir string `yaml:"resources_dir" toml:"resources_dir"`
	// PackageSubpath is the JS resources directory inside each package
	PackageSubpath string `yaml:"package_subpath" toml:"package_subpath"`
	// EnvFiles are read for preset cutoffs; later files win
	EnvFiles []string `yaml:"env_files" toml:"env_files"`
}

// Preset names a package group and where its cutoff comes from.
type Preset struct {
	// Vendor is the package group directory name
	Vendor string `yaml:"vendor" toml:"vendor"`
	// Since is a literal cutoff in YYYY.MM.DD HH:MM:SS format
	Since string `yaml:"since,omitempty" toml:"since,omitempty"`
	// SinceEnv names an environment key holding the cutoff, used when Since is empty
	SinceEnv string `yaml:"since_env,omitempty" toml:"since_env,omitempty"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the report format (text, json)
	Format string `yaml:"format" toml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color"`
}

// TimestampConfig holds cutoff interpretation settings.
type TimestampConfig struct {
	// Location is "Local", "UTC" or an IANA zone name
	Location string `yaml:"location" toml:"location"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level (debug, info, warn, error)
	Level string `yaml:"level" toml:"level"`
	// JSON switches log output to JSON
	JSON bool `yaml:"json" toml:"json"`
}

// IcePreset is the built-in preset for the totocsa package group.
const IcePreset = "ice"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			VendorDir:      "vendor",
			ResourcesDir:   filepath.Join("resources", "js"),
			PackageSubpath: filepath.Join("resources", "js"),
			EnvFiles:       []string{".env", ".env.local"},
		},
		Presets: map[string]Preset{
			IcePreset: {
				Vendor:   "totocsa",
				SinceEnv: "ICE_INSTALL_TIMESTAMP",
			},
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		Timestamp: TimestampConfig{
			Location: "Local",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

const (
	configFileName  = "config.yaml"
	projectFileName = ".vendorjs.toml"
)

// FilePath returns the path to the user config file.
func FilePath() string {
	return filepath.Join(util.ConfigDir(), configFileName)
}

// ProjectFilePath returns the path to a project's config file.
func ProjectFilePath(projectDir string) string {
	return filepath.Join(projectDir, projectFileName)
}

// Load builds the effective configuration for projectDir: defaults, then
// the user config file, then the project file, then the environment.
// Missing files are skipped.
func Load(projectDir string) (*Config, error) {
	return LoadFiles(FilePath(), projectDir)
}

// LoadFiles is Load with an explicit user config path. An explicitly named
// file must exist.
func LoadFiles(userPath, projectDir string) (*Config, error) {
	cfg := Default()

	if err := cfg.mergeFile(userPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) || userPath != FilePath() {
			return nil, err
		}
	}
	if projectDir != "" {
		if err := cfg.mergeFile(ProjectFilePath(projectDir)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific YAML or TOML file over
// the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvironment()
	return cfg, nil
}

// mergeFile decodes path over c; the decoder is picked by file extension.
func (c *Config) mergeFile(path string) error {
	// #nosec G304 - path is the user or project config file
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return nil
}

// Save writes the configuration to the user config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration as YAML to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := c.YAML()
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern VENDORJS_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("VENDORJS_PATHS_VENDOR_DIR"); v != "" {
		c.Paths.VendorDir = v
	}
	if v := os.Getenv("VENDORJS_PATHS_RESOURCES_DIR"); v != "" {
		c.Paths.ResourcesDir = v
	}
	if v := os.Getenv("VENDORJS_PATHS_PACKAGE_SUBPATH"); v != "" {
		c.Paths.PackageSubpath = v
	}
	if v := os.Getenv("VENDORJS_PATHS_ENV_FILES"); v != "" {
		c.Paths.EnvFiles = splitList(v)
	}

	if v := os.Getenv("VENDORJS_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("VENDORJS_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}

	if v := os.Getenv("VENDORJS_TIMESTAMP_LOCATION"); v != "" {
		c.Timestamp.Location = v
	}

	if v := os.Getenv("VENDORJS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("VENDORJS_LOG_JSON"); v != "" {
		c.Log.JSON = parseBool(v)
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	switch name := strings.TrimSpace(c.Timestamp.Location); name {
	case "", "Local", "local":
		return time.Local, nil
	default:
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp location %q: %w", name, err)
		}
		return loc, nil
	}
}

// Preset returns the named preset.
func (c *Config) Preset(name string) (Preset, bool) {
	p, ok := c.Presets[name]
	return p, ok
}

// PresetNames returns the configured preset names, sorted.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exists returns true if a user config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
