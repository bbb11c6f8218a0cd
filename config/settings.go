// Package config provides the option structures for the gowc CLI and the
// gowc-server HTTP service, their flag bindings, defaults and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"

	"github.com/gcbaptista/go-wc/internal/errors"
)

// DefaultTopK is the number of ranked words reported when frequency mode is
// requested without an explicit size.
const DefaultTopK = 10

// Color modes accepted by Options.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Options controls a single gowc run.
//
// The basic counters and frequency mode are independent: any combination may
// be enabled. When none is enabled ApplyDefaults turns on lines, words and
// characters, matching plain `wc`.
type Options struct {
	Lines      bool `json:"lines"`
	Words      bool `json:"words"`
	Characters bool `json:"characters"`
	Frequency  bool `json:"frequency"`

	TopK    int `json:"top_k"`   // Ranking size for frequency mode; 0 yields an empty ranking
	Workers int `json:"workers"` // Inputs processed concurrently; 1 means sequential

	Recursive      bool     `json:"recursive"`       // Expand directory arguments into their files
	FollowSymlinks bool     `json:"follow_symlinks"` // Follow symlinks while expanding directories
	JSON           bool     `json:"json"`            // Emit the report as JSON
	Color          string   `json:"color"`           // auto, always or never
	SaveTable      string   `json:"save_table"`      // Write the merged frequency table to this file
	LoadTables     []string `json:"load_tables"`     // Merge these saved tables into the total
	LogLevel       string   `json:"log_level"`
}

// NewOptions returns Options with every default applied and no mode selected.
func NewOptions() *Options {
	return &Options{
		TopK:     DefaultTopK,
		Workers:  1,
		Color:    ColorAuto,
		LogLevel: "warn",
	}
}

// AddFlags registers the options on flags. Defaults come from the current
// field values, so call it on the result of NewOptions.
func (o *Options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&o.Lines, "lines", "l", o.Lines, "print the newline counts")
	flags.BoolVarP(&o.Words, "words", "w", o.Words, "print the word counts")
	flags.BoolVarP(&o.Characters, "chars", "c", o.Characters, "print the character counts")
	flags.BoolVarP(&o.Frequency, "frequency", "f", o.Frequency,
		"print the most frequent words across all inputs")
	flags.IntVarP(&o.TopK, "top", "k", o.TopK, "number of words reported by --frequency")
	flags.IntVarP(&o.Workers, "jobs", "j", o.Workers, "number of inputs processed concurrently")
	flags.BoolVarP(&o.Recursive, "recursive", "r", o.Recursive, "count the files below directory arguments")
	flags.BoolVarP(&o.FollowSymlinks, "follow", "L", o.FollowSymlinks, "follow symlinks when recursing")
	flags.BoolVar(&o.JSON, "json", o.JSON, "print the report as JSON")
	flags.StringVar(&o.Color, "color", o.Color, "colorize output [auto|always|never]")
	flags.StringVar(&o.SaveTable, "save-table", o.SaveTable, "save the merged word frequency table to `FILE`")
	flags.StringArrayVar(&o.LoadTables, "load-table", o.LoadTables,
		"merge a table saved with --save-table into the totals (repeatable)")
	flags.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level [debug|info|warn|error]")
}

// CountsEnabled reports whether any of the basic counters is enabled.
func (o *Options) CountsEnabled() bool {
	return o.Lines || o.Words || o.Characters
}

// NeedsTable reports whether frequency tables must be built.
func (o *Options) NeedsTable() bool {
	return o.Frequency || o.SaveTable != ""
}

// ApplyDefaults fills in unset values.
func (o *Options) ApplyDefaults() {
	// Compat with wc: no mode flags means lines, words and characters.
	if !o.CountsEnabled() && !o.Frequency {
		o.Lines = true
		o.Words = true
		o.Characters = true
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	if o.Color == "" {
		o.Color = ColorAuto
	}
	if o.LogLevel == "" {
		o.LogLevel = "warn"
	}
	if o.LoadTables == nil {
		o.LoadTables = []string{}
	}
}

// Validate returns a description of every invalid option.
func (o *Options) Validate() []string {
	var conflicts []string

	if o.TopK < 0 {
		conflicts = append(conflicts, fmt.Sprintf("top must not be negative (got %d)", o.TopK))
	}
	if o.Workers < 1 {
		conflicts = append(conflicts, fmt.Sprintf("jobs must be at least 1 (got %d)", o.Workers))
	}
	switch o.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		conflicts = append(conflicts, "Invalid color '"+o.Color+"' (must be 'auto', 'always' or 'never')")
	}
	conflicts = append(conflicts, validateLogLevel(o.LogLevel)...)
	if len(o.LoadTables) > 0 && !o.NeedsTable() {
		conflicts = append(conflicts, "load-table requires --frequency or --save-table")
	}
	for _, path := range o.LoadTables {
		if strings.TrimSpace(path) == "" {
			conflicts = append(conflicts, "load-table path cannot be empty or whitespace-only")
		}
	}

	return conflicts
}

// Check is Validate as an error: nil when the options are valid, otherwise
// an errors.ValidationError listing every conflict.
func (o *Options) Check() error {
	return conflictsError(o.Validate())
}

// ServerOptions controls the gowc-server HTTP service.
type ServerOptions struct {
	Addr         string        `json:"addr"`
	MaxBodyBytes int64         `json:"max_body_bytes"`
	Workers      int           `json:"workers"`       // Concurrent background analysis jobs
	DefaultTopK  int           `json:"default_top_k"` // Used when a request omits top_k
	JobRetention time.Duration `json:"job_retention"` // Finished jobs older than this are dropped
	LogLevel     string        `json:"log_level"`
}

// NewServerOptions returns ServerOptions with defaults, honoring the
// GOWC_ADDR and GOWC_LOG_LEVEL environment variables.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		Addr:         envOr("GOWC_ADDR", ":8080"),
		MaxBodyBytes: 32 << 20,
		Workers:      4,
		DefaultTopK:  DefaultTopK,
		JobRetention: 24 * time.Hour,
		LogLevel:     envOr("GOWC_LOG_LEVEL", "info"),
	}
}

// AddFlags registers the server options on flags.
func (o *ServerOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.Addr, "addr", o.Addr, "HTTP server address")
	flags.Int64Var(&o.MaxBodyBytes, "max-body-bytes", o.MaxBodyBytes, "maximum request body size")
	flags.IntVar(&o.Workers, "workers", o.Workers, "maximum concurrent background jobs")
	flags.IntVar(&o.DefaultTopK, "top", o.DefaultTopK, "ranking size when a request omits top_k")
	flags.DurationVar(&o.JobRetention, "job-retention", o.JobRetention, "how long finished jobs are kept")
	flags.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level [debug|info|warn|error]")
}

// ApplyDefaults fills in unset values.
func (o *ServerOptions) ApplyDefaults() {
	if o.Addr == "" {
		o.Addr = ":8080"
	}
	if o.MaxBodyBytes == 0 {
		o.MaxBodyBytes = 32 << 20
	}
	if o.Workers == 0 {
		o.Workers = 4
	}
	if o.JobRetention == 0 {
		o.JobRetention = 24 * time.Hour
	}
	if o.LogLevel == "" {
		o.LogLevel = "info"
	}
}

// Validate returns a description of every invalid option.
func (o *ServerOptions) Validate() []string {
	var conflicts []string
	if o.MaxBodyBytes < 0 {
		conflicts = append(conflicts, "max-body-bytes must not be negative")
	}
	if o.Workers < 1 {
		conflicts = append(conflicts, fmt.Sprintf("workers must be at least 1 (got %d)", o.Workers))
	}
	if o.DefaultTopK < 0 {
		conflicts = append(conflicts, fmt.Sprintf("top must not be negative (got %d)", o.DefaultTopK))
	}
	if o.JobRetention < 0 {
		conflicts = append(conflicts, "job-retention must not be negative")
	}
	conflicts = append(conflicts, validateLogLevel(o.LogLevel)...)
	return conflicts
}

// Check is Validate as an error.
func (o *ServerOptions) Check() error {
	return conflictsError(o.Validate())
}

func validateLogLevel(level string) []string {
	if _, err := zapcore.ParseLevel(level); err != nil {
		return []string{"Invalid log level '" + level + "'"}
	}
	return nil
}

func conflictsError(conflicts []string) error {
	if len(conflicts) == 0 {
		return nil
	}
	return errors.NewValidationError("", strings.Join(conflicts, "; "))
}

func envOr(key, def string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return def
}
