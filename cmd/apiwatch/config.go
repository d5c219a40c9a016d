package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/apiwatch/pkg/scan"
)

// defaultConfigFile is read from the working directory when no config path
// is given.
const defaultConfigFile = "apiwatch.yaml"

// Config is the file and environment configuration. Command-line flags take
// precedence over the environment, which takes precedence over the file.
type Config struct {
	// Indexes are declarative index files, merged in order.
	Indexes []string `yaml:"indexes"`

	// Annotations is a YAML annotation index enabling annotated-usage
	// detection.
	Annotations string `yaml:"annotations"`

	Workers            int    `yaml:"workers"`
	CacheSize          int    `yaml:"cache_size"`
	MinMajorVersion    uint16 `yaml:"min_major_version"`
	IncludeDescriptors bool   `yaml:"include_descriptors"`

	// FailOnUsage makes scan exit with status 2 when usages are found.
	FailOnUsage bool `yaml:"fail_on_usage"`

	// Baseline is a text report of accepted usages; only new usages fail.
	Baseline string `yaml:"baseline"`

	MetricsFile string `yaml:"metrics_file"`
	LogLevel    string `yaml:"log_level"`
	LogJSON     bool   `yaml:"log_json"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	d := scan.DefaultOptions()
	return &Config{
		Workers:   d.Workers,
		CacheSize: d.CacheSize,
	}
}

// LoadConfig resolves defaults, then the config file, then the environment.
// envFile is loaded into the environment first if it exists; variables
// already set are not overridden.
func LoadConfig(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	c := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = os.Getenv("APIWATCH_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("APIWATCH_INDEX"); ok {
		c.Indexes = splitList(v)
	}
	if v, ok := lookupEnv("APIWATCH_ANNOTATIONS"); ok {
		c.Annotations = v
	}
	if v, ok := lookupEnv("APIWATCH_BASELINE"); ok {
		c.Baseline = v
	}
	if v, ok := lookupEnv("APIWATCH_METRICS_FILE"); ok {
		c.MetricsFile = v
	}
	if v, ok := lookupEnv("APIWATCH_LOG_LEVEL"); ok {
		c.LogLevel = v
	}

	var err error
	if v, ok := lookupEnv("APIWATCH_WORKERS"); ok {
		if c.Workers, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("APIWATCH_WORKERS: %w", err)
		}
	}
	if v, ok := lookupEnv("APIWATCH_CACHE_SIZE"); ok {
		if c.CacheSize, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("APIWATCH_CACHE_SIZE: %w", err)
		}
	}
	if v, ok := lookupEnv("APIWATCH_MIN_MAJOR_VERSION"); ok {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("APIWATCH_MIN_MAJOR_VERSION: %w", err)
		}
		c.MinMajorVersion = uint16(n)
	}
	for name, dst := range map[string]*bool{
		"APIWATCH_INCLUDE_DESCRIPTORS": &c.IncludeDescriptors,
		"APIWATCH_FAIL_ON_USAGE":       &c.FailOnUsage,
		"APIWATCH_LOG_JSON":            &c.LogJSON,
	} {
		if v, ok := lookupEnv(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = b
		}
	}
	return nil
}

// lookupEnv returns a trimmed, non-empty environment variable.
func lookupEnv(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ScanOptions converts the configuration to scan options.
func (c *Config) ScanOptions() scan.Options {
	o := scan.DefaultOptions()
	o.Workers = c.Workers
	o.CacheSize = c.CacheSize
	o.MinMajorVersion = c.MinMajorVersion
	o.SkipModuleInfo = !c.IncludeDescriptors
	return o
}
