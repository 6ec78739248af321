package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"rkas-ledger/internal/gateway"
)

// Environment variables read by ApplyEnv.
const (
	EnvSources       = "RKAS_SOURCES"
	EnvReportDir     = "RKAS_REPORT_DIR"
	EnvReportName    = "RKAS_REPORT_NAME"
	EnvReportFormats = "RKAS_REPORT_FORMATS"
	EnvLogLevel      = "RKAS_LOG_LEVEL"
	EnvAWSRegion     = "RKAS_AWS_REGION"
	EnvAWSProfile    = "RKAS_AWS_PROFILE"
	EnvStrictHeader  = "RKAS_STRICT_HEADER"
)

var (
	validFormats   = []string{gateway.FormatCSV, gateway.FormatJSON, gateway.FormatPDF}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Config is the application configuration. It can be loaded from a TOML, YAML
// or JSON file and overridden by environment variables and flags.
type Config struct {
	Sources       []string `json:"sources" yaml:"sources" toml:"sources"`
	ReportDir     string   `json:"report_dir" yaml:"report_dir" toml:"report_dir"`
	ReportName    string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportFormats []string `json:"report_formats" yaml:"report_formats" toml:"report_formats"`
	LogLevel      string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	AWSRegion     string   `json:"aws_region" yaml:"aws_region" toml:"aws_region"`
	AWSProfile    string   `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile"`
	StrictHeader  bool     `json:"strict_header" yaml:"strict_header" toml:"strict_header"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		ReportName:    "rkas_report",
		ReportFormats: []string{gateway.FormatCSV},
		LogLevel:      "info",
	}
}

// Load builds the configuration from defaults, the optional file at path and
// then the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadFile reads a TOML, YAML or JSON configuration file.
func LoadFile(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))

	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	switch ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}
	return &cfg, nil
}

// Merge copies every non-zero field of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if len(other.Sources) > 0 {
		c.Sources = other.Sources
	}
	if other.ReportDir != "" {
		c.ReportDir = other.ReportDir
	}
	if other.ReportName != "" {
		c.ReportName = other.ReportName
	}
	if len(other.ReportFormats) > 0 {
		c.ReportFormats = other.ReportFormats
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.AWSRegion != "" {
		c.AWSRegion = other.AWSRegion
	}
	if other.AWSProfile != "" {
		c.AWSProfile = other.AWSProfile
	}
	if other.StrictHeader {
		c.StrictHeader = true
	}
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvSources); ok && v != "" {
		c.Sources = splitList(v)
	}
	if v, ok := lookup(EnvReportDir); ok && v != "" {
		c.ReportDir = v
	}
	if v, ok := lookup(EnvReportName); ok && v != "" {
		c.ReportName = v
	}
	if v, ok := lookup(EnvReportFormats); ok && v != "" {
		c.ReportFormats = splitList(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvAWSRegion); ok && v != "" {
		c.AWSRegion = v
	}
	if v, ok := lookup(EnvAWSProfile); ok && v != "" {
		c.AWSProfile = v
	}
	if v, ok := lookup(EnvStrictHeader); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.StrictHeader = b
		}
	}
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var errors []string

	if len(c.Sources) == 0 {
		errors = append(errors, "at least one ledger source is required (--source or "+EnvSources+")")
	}
	for _, src := range c.Sources {
		if strings.TrimSpace(src) == "" {
			errors = append(errors, "ledger source cannot be empty")
			continue
		}
		if strings.HasPrefix(src, "s3://") {
			if _, _, err := gateway.ParseS3URI(src); err != nil {
				errors = append(errors, err.Error())
			}
		}
	}

	for _, f := range c.ReportFormats {
		if !contains(validFormats, strings.ToLower(f)) {
			errors = append(errors, fmt.Sprintf("invalid report format '%s': must be one of %v", f, validFormats))
		}
	}

	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
