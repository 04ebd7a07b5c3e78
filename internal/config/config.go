// Package config manages Guardian's CLI-local configuration: output
// format, color, and the CLI's own data directory. This governs CLI
// ergonomics only and never the hook's allow/deny decisions, which come
// exclusively from .guardian/policy.json (internal/policy). Precedence is
// flags > env (GUARDIAN_*) > project (.guardian/config.yaml) > home
// (~/.guardian/config.yaml) > defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds CLI-local preferences.
type Config struct {
	// Output controls the default render format (table, json, yaml).
	Output string `yaml:"output" json:"output"`

	// Color controls ANSI color in human-readable output: auto, always, never.
	Color string `yaml:"color" json:"color"`

	// BaseDir is Guardian's data directory, default ".guardian".
	BaseDir string `yaml:"base_dir" json:"base_dir"`

	// Verbose enables verbose CLI output.
	Verbose bool `yaml:"verbose" json:"verbose"`
}

const (
	defaultOutput  = "table"
	defaultColor   = "auto"
	defaultBaseDir = ".guardian"
)

// Default returns Guardian's default CLI configuration.
func Default() *Config {
	return &Config{
		Output:  defaultOutput,
		Color:   defaultColor,
		BaseDir: defaultBaseDir,
	}
}

// Load resolves configuration with precedence: flags > env > project > home
// > defaults.
func Load(flagOverrides *Config) *Config {
	cfg := Default()

	if home, err := loadFromPath(homeConfigPath()); err == nil && home != nil {
		cfg = merge(cfg, home)
	}
	if proj, err := loadFromPath(projectConfigPath()); err == nil && proj != nil {
		cfg = merge(cfg, proj)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg
}

func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".guardian", "config.yaml")
}

func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("GUARDIAN_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".guardian", "config.yaml")
}

func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("GUARDIAN_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("GUARDIAN_COLOR"); v != "" {
		cfg.Color = v
	}
	if v := os.Getenv("GUARDIAN_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("GUARDIAN_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	return cfg
}

func merge(dst, src *Config) *Config {
	if src.Output != "" {
		dst.Output = src.Output
	}
	if src.Color != "" {
		dst.Color = src.Color
	}
	if src.BaseDir != "" {
		dst.BaseDir = src.BaseDir
	}
	if src.Verbose {
		dst.Verbose = true
	}
	return dst
}

// Source identifies where a resolved config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceHome    Source = "~/.guardian/config.yaml"
	SourceProject Source = ".guardian/config.yaml"
	SourceEnv     Source = "environment"
	SourceFlag    Source = "flag"
)

// Resolved pairs a config value with the source it came from, for
// `guardian check --explain-config`.
type Resolved struct {
	Value  string `json:"value"`
	Source Source `json:"source"`
}

// ResolvedConfig mirrors Config but with source tracking per field.
type ResolvedConfig struct {
	Output  Resolved `json:"output"`
	Color   Resolved `json:"color"`
	BaseDir Resolved `json:"base_dir"`
}

// Resolve computes a ResolvedConfig given optional flag overrides, tracing
// each field back to the layer that set it.
func Resolve(flagOutput, flagColor, flagBaseDir string) *ResolvedConfig {
	home, _ := loadFromPath(homeConfigPath())
	proj, _ := loadFromPath(projectConfigPath())

	rc := &ResolvedConfig{
		Output:  resolveField(fieldOf(home, "Output"), fieldOf(proj, "Output"), os.Getenv("GUARDIAN_OUTPUT"), flagOutput, defaultOutput),
		Color:   resolveField(fieldOf(home, "Color"), fieldOf(proj, "Color"), os.Getenv("GUARDIAN_COLOR"), flagColor, defaultColor),
		BaseDir: resolveField(fieldOf(home, "BaseDir"), fieldOf(proj, "BaseDir"), os.Getenv("GUARDIAN_BASE_DIR"), flagBaseDir, defaultBaseDir),
	}
	return rc
}

func fieldOf(cfg *Config, field string) string {
	if cfg == nil {
		return ""
	}
	switch field {
	case "Output":
		return cfg.Output
	case "Color":
		return cfg.Color
	case "BaseDir":
		return cfg.BaseDir
	}
	return ""
}

func resolveField(home, project, env, flag, def string) Resolved {
	result := Resolved{Value: def, Source: SourceDefault}
	if home != "" {
		result = Resolved{Value: home, Source: SourceHome}
	}
	if project != "" {
		result = Resolved{Value: project, Source: SourceProject}
	}
	if env != "" {
		result = Resolved{Value: env, Source: SourceEnv}
	}
	if flag != "" {
		result = Resolved{Value: flag, Source: SourceFlag}
	}
	return result
}
