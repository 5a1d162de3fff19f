// internal/config/config.go

// Package config is for run-wide settings that are unmarshalled
// from Viper (see: internal/app)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. FASTADIFF_THREADS.
const EnvPrefix = "FASTADIFF"

// Output formats for the mapping table.
const (
	FormatTSV   = "tsv"
	FormatJSONL = "jsonl"
)

// S3Config holds settings for s3:// inputs and outputs
type S3Config struct {
	// AWS region; empty uses the default credential chain's region
	Region string `mapstructure:"region"`

	// custom endpoint for S3-compatible services
	Endpoint string `mapstructure:"endpoint"`

	// force path-style addressing (required by most local S3 emulators)
	PathStyle bool `mapstructure:"path-style"`
}

// MinioConfig holds settings for minio:// inputs and outputs
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
	Secure    bool   `mapstructure:"secure"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a config file, the environment
// and those available from the command line
type Config struct {
	// path of the mapping table, "-" for stdout
	Out string `mapstructure:"out"`

	// mapping table format: tsv | jsonl
	Format string `mapstructure:"format"`

	// path of the unmatched-sequence report, empty to disable
	Report string `mapstructure:"report"`

	// directory receiving per-stage FASTA dumps of unmatched records
	DebugDir string `mapstructure:"debug-dir"`

	// warn when a new header does not mention the mapped old id
	HeaderCheck bool `mapstructure:"header-check"`

	// let N in a new sequence match any old base when merging split blocks
	WildcardGaps bool `mapstructure:"wildcard-gaps"`

	// abort when an input file contains duplicate sequences
	StrictDuplicates bool `mapstructure:"strict-duplicates"`

	// worker goroutines for candidate search (0 = all CPUs)
	Threads int `mapstructure:"threads"`

	// read the written mapping back and verify it row by row
	Check bool `mapstructure:"check"`

	// draw progress bars on stderr
	Progress bool `mapstructure:"progress"`

	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	Quiet     bool   `mapstructure:"quiet"`

	S3    S3Config    `mapstructure:"s3"`
	Minio MinioConfig `mapstructure:"minio"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("out", "-")
	v.SetDefault("format", FormatTSV)
	v.SetDefault("report", "")
	v.SetDefault("debug-dir", "")
	v.SetDefault("header-check", false)
	v.SetDefault("wildcard-gaps", false)
	v.SetDefault("strict-duplicates", false)
	v.SetDefault("threads", 0)
	v.SetDefault("check", false)
	v.SetDefault("progress", false)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
	v.SetDefault("quiet", false)
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.path-style", false)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access-key", "")
	v.SetDefault("minio.secret-key", "")
	v.SetDefault("minio.secure", true)
}

// NewViper returns a Viper instance with defaults and environment lookups wired.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads an optional config file into v and decodes the merged settings.
func Load(v *viper.Viper, file string) (Config, error) {
	var c Config
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode config: %w", err)
	}
	return c, Validate(c)
}

// Validate applies invariants shared by every entry point.
func Validate(c Config) error {
	if c.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	switch c.Format {
	case FormatTSV, FormatJSONL:
	default:
		return fmt.Errorf("invalid --format %q", c.Format)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid --log-level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid --log-format %q", c.LogFormat)
	}
	if c.Out == "" {
		return errors.New("--out must not be empty (use - for stdout)")
	}
	return nil
}

// Print writes the effective settings of v as indented JSON, with secrets
// masked.
func Print(w io.Writer, v *viper.Viper) error {
	all := v.AllSettings()
	if m, ok := all["minio"].(map[string]any); ok {
		if s, _ := m["secret-key"].(string); s != "" {
			m["secret-key"] = "****"
		}
	}
	b, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
