package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/insightbox-cli/internal/utils"
)

const (
	envPrefix = "INSIGHTBOX"
	dirName   = ".insightbox"
)

// Global configuration structure.
type Global struct {
	// Ingestion
	NAValues   []string `mapstructure:"na_values" yaml:"na_values"`
	Delimiter  string   `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName  string   `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int      `mapstructure:"sheet_index" yaml:"sheet_index"`

	// Reports and charts
	SampleRows       int     `mapstructure:"sample_rows" yaml:"sample_rows"`
	HistogramBins    int     `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	TopValues        int     `mapstructure:"top_values" yaml:"top_values"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`

	// HTTP console
	ServerAddr    string `mapstructure:"server_addr" yaml:"server_addr"`
	MaxUploadMB   int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	SessionTTLMin int    `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	RecipesDir string `mapstructure:"recipes_dir" yaml:"recipes_dir"`
}

var defaults = map[string]any{
	"na_values":         []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "#N/A", "<NA>"},
	"delimiter":         "",
	"sheet_name":        "",
	"sheet_index":       1,
	"sample_rows":       5,
	"histogram_bins":    20,
	"top_values":        8,
	"outlier_threshold": 3.5,
	"server_addr":       ":8080",
	"max_upload_mb":     200,
	"session_ttl_min":   60,
	"log_level":         "info",
	"log_format":        "console",
	"recipes_dir":       "",
}

// Keys lists every configuration key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultDir is ~/.insightbox.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.insightbox/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is read first and never overrides variables already set.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.RecipesDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		c.RecipesDir = filepath.Join(dir, "recipes")
	}
	dir, err := utils.ExpandPath(c.RecipesDir)
	if err != nil {
		return nil, err
	}
	c.RecipesDir = dir
	return &c, nil
}

// Get returns the value stored under key.
func (c *Global) Get(key string) (any, error) {
	switch key {
	case "na_values":
		return c.NAValues, nil
	case "delimiter":
		return c.Delimiter, nil
	case "sheet_name":
		return c.SheetName, nil
	case "sheet_index":
		return c.SheetIndex, nil
	case "sample_rows":
		return c.SampleRows, nil
	case "histogram_bins":
		return c.HistogramBins, nil
	case "top_values":
		return c.TopValues, nil
	case "outlier_threshold":
		return c.OutlierThreshold, nil
	case "server_addr":
		return c.ServerAddr, nil
	case "max_upload_mb":
		return c.MaxUploadMB, nil
	case "session_ttl_min":
		return c.SessionTTLMin, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "recipes_dir":
		return c.RecipesDir, nil
	}
	return nil, fmt.Errorf("unknown key: %s", key)
}

// Set parses val for key and stores it. List values are comma separated.
func (c *Global) Set(key, val string) error {
	switch key {
	case "na_values":
		if val == "" {
			c.NAValues = []string{}
			return nil
		}
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		c.NAValues = parts
	case "delimiter":
		if len([]rune(unescape(val))) > 1 {
			return fmt.Errorf("invalid delimiter %q: use a single character", val)
		}
		c.Delimiter = val
	case "sheet_name":
		c.SheetName = val
	case "sheet_index", "sample_rows", "histogram_bins", "top_values", "max_upload_mb", "session_ttl_min":
		i, err := cast.ToIntE(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "sheet_index":
			c.SheetIndex = i
		case "sample_rows":
			c.SampleRows = i
		case "histogram_bins":
			c.HistogramBins = i
		case "top_values":
			c.TopValues = i
		case "max_upload_mb":
			c.MaxUploadMB = i
		case "session_ttl_min":
			c.SessionTTLMin = i
		}
	case "outlier_threshold":
		f, err := cast.ToFloat64E(val)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid float for outlier_threshold: %v", val)
		}
		c.OutlierThreshold = f
	case "server_addr":
		c.ServerAddr = val
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "console", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	case "recipes_dir":
		c.RecipesDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// DelimiterRune returns the configured delimiter, or 0 to detect it.
// "\t" and "tab" both mean a tab.
func (c *Global) DelimiterRune() rune {
	r := []rune(unescape(c.Delimiter))
	if len(r) != 1 {
		return 0
	}
	return r[0]
}

func unescape(s string) string {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return "\t"
	}
	return s
}
