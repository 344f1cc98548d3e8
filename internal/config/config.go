package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/tidwall/jsonc"
)

// EnvPrefix is the prefix for environment variable overrides (EXTRACTORSIM_DATA_DIR, ...).
const EnvPrefix = "EXTRACTORSIM"

// Config holds application configuration.
type Config struct {
	// DataDir holds the JSON collections, the credential database and config.json.
	// Defaults to the directory containing the executable.
	DataDir string `json:"data_dir,omitempty" envconfig:"DATA_DIR"`

	// OutputDir is where generated PDFs and exports land when no explicit path is given.
	// Defaults to ~/Downloads.
	OutputDir string `json:"output_dir,omitempty" envconfig:"OUTPUT_DIR"`

	// RenderTimeoutSeconds bounds the wait for the off-screen page to load and print.
	RenderTimeoutSeconds int `json:"render_timeout_seconds,omitempty" envconfig:"RENDER_TIMEOUT_SECONDS"`

	// PageSize is the default paper size for generated PDFs (A4, A3, A5, Letter, Legal).
	PageSize string `json:"page_size,omitempty" envconfig:"PAGE_SIZE"`

	// Landscape switches the default orientation.
	Landscape bool `json:"landscape,omitempty" envconfig:"LANDSCAPE"`

	// PrintBackground controls background graphics. A nil value means "default" (true).
	PrintBackground *bool `json:"print_background,omitempty" envconfig:"PRINT_BACKGROUND"`

	// ChromePath overrides the headless browser executable used for rasterizing.
	ChromePath string `json:"chrome_path,omitempty" envconfig:"CHROME_PATH"`

	// HTTPBind and HTTPPort configure the local JSON API used by the desktop shell.
	HTTPBind string `json:"http_bind,omitempty" envconfig:"HTTP_BIND"`
	HTTPPort int    `json:"http_port,omitempty" envconfig:"HTTP_PORT"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `json:"log_level,omitempty" envconfig:"LOG_LEVEL"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty" envconfig:"DISABLED_TOOLS"`

	// DisabledTypes is a list of tool groups to disable entirely
	// (supervisor, agents, terminales, notas, historial, inventario, data, sims, app).
	DisabledTypes []string `json:"disabled_types,omitempty" envconfig:"DISABLED_TYPES"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	printBackground := true
	return &Config{
		DataDir:              ExecutableDir(),
		OutputDir:            defaultOutputDir(),
		RenderTimeoutSeconds: 30,
		PageSize:             "A4",
		PrintBackground:      &printBackground,
		HTTPBind:             "127.0.0.1",
		HTTPPort:             8765,
		LogLevel:             "info",
	}
}

// Load loads configuration from baseDir/config.json and applies environment overrides.
// Returns default config (with overrides) if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of the executable dir.
func Load(baseDir string) (*Config, error) {
	fileCfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}

	cfg := Merge(DefaultConfig(), fileCfg)
	if fileCfg.DataDir == "" {
		cfg.DataDir = baseDir
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return cfg, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
// Comments and trailing commas are allowed.
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DataDir = firstNonEmpty(overlay.DataDir, base.DataDir)
	result.OutputDir = firstNonEmpty(overlay.OutputDir, base.OutputDir)
	result.PageSize = firstNonEmpty(overlay.PageSize, base.PageSize)
	result.ChromePath = firstNonEmpty(overlay.ChromePath, base.ChromePath)
	result.HTTPBind = firstNonEmpty(overlay.HTTPBind, base.HTTPBind)
	result.LogLevel = firstNonEmpty(overlay.LogLevel, base.LogLevel)

	result.RenderTimeoutSeconds = overlay.RenderTimeoutSeconds
	if result.RenderTimeoutSeconds == 0 {
		result.RenderTimeoutSeconds = base.RenderTimeoutSeconds
	}

	result.HTTPPort = overlay.HTTPPort
	if result.HTTPPort == 0 {
		result.HTTPPort = base.HTTPPort
	}

	// Booleans: overlay wins if true, else base
	result.Landscape = base.Landscape || overlay.Landscape

	// Tri-state: explicit overlay value wins
	result.PrintBackground = base.PrintBackground
	if overlay.PrintBackground != nil {
		v := *overlay.PrintBackground
		result.PrintBackground = &v
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

// PrintBackgroundEnabled reports the effective background-graphics setting.
func (c *Config) PrintBackgroundEnabled() bool {
	if c.PrintBackground == nil {
		return true
	}
	return *c.PrintBackground
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// ExecutableDir returns the directory of the running binary, falling back to ".".
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
