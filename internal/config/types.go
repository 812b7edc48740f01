// Package config loads leapanim configuration from defaults, a YAML file,
// LEAPANIM_ environment variables and command-line flags, in increasing
// order of precedence.
package config

// Config holds all CLI configuration options.
type Config struct {
	LogLevel            string       `koanf:"log_level"`
	LogFormat           string       `koanf:"log_format"`
	Output              string       `koanf:"output"`
	DefaultKeyframeType string       `koanf:"default_keyframe_type"`
	Sample              SampleConfig `koanf:"sample"`
	Cache               CacheConfig  `koanf:"cache"`
}

// SampleConfig controls how inputs are sampled over a time span.
type SampleConfig struct {
	// Workers bounds the number of concurrent evaluations.
	Workers int `koanf:"workers"`
	// Step is the time between samples, as a rational ("1", "1/24", "0.5").
	Step string `koanf:"step"`
}

// CacheConfig selects the frame cache store.
type CacheConfig struct {
	// Path of the SQLite cache database. Empty keeps samples in memory.
	Path string `koanf:"path"`
}

// Default configuration values.
const (
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultOutput       = "text"
	DefaultKeyframeType = "linear"
	DefaultWorkers      = 4
	DefaultStep         = "1"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// configNames are the file names searched for in the working directory.
var configNames = []string{"leapanim.yaml", "leapanim.yml"}

func defaults() map[string]any {
	return map[string]any{
		"log_level":             DefaultLogLevel,
		"log_format":            DefaultLogFormat,
		"output":                DefaultOutput,
		"default_keyframe_type": DefaultKeyframeType,
		"sample.workers":        DefaultWorkers,
		"sample.step":           DefaultStep,
		"cache.path":            "",
	}
}
