package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wcerrors "github.com/gcbaptista/go-wc/internal/errors"
)

func parseOptions(t *testing.T, args ...string) *Options {
	t.Helper()
	opts := NewOptions()
	flags := pflag.NewFlagSet("gowc", pflag.ContinueOnError)
	opts.AddFlags(flags)
	require.NoError(t, flags.Parse(args))
	opts.ApplyDefaults()
	return opts
}

func TestOptions_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name                           string
		args                           []string
		lines, words, chars, frequency bool
	}{
		{"no flags enables wc counters", nil, true, true, true, false},
		{"lines only", []string{"-l"}, true, false, false, false},
		{"words and chars", []string{"-wc"}, false, true, true, false},
		{"frequency only", []string{"-f"}, false, false, false, true},
		{"frequency combined with lines", []string{"-f", "-l"}, true, false, false, true},
		{"long flags", []string{"--lines", "--words", "--chars"}, true, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := parseOptions(t, tt.args...)
			assert.Equal(t, tt.lines, opts.Lines, "lines")
			assert.Equal(t, tt.words, opts.Words, "words")
			assert.Equal(t, tt.chars, opts.Characters, "chars")
			assert.Equal(t, tt.frequency, opts.Frequency, "frequency")
		})
	}
}

func TestOptions_FlagDefaults(t *testing.T) {
	opts := parseOptions(t)
	assert.Equal(t, DefaultTopK, opts.TopK)
	assert.Equal(t, 1, opts.Workers)
	assert.Equal(t, ColorAuto, opts.Color)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.Empty(t, opts.LoadTables)
	assert.Empty(t, opts.Validate())
}

func TestOptions_ParseValues(t *testing.T) {
	opts := parseOptions(t, "-f", "-k", "3", "-j", "4", "-r", "--json",
		"--load-table", "a.gob", "--load-table", "b.gob", "--save-table", "out.gob")

	assert.Equal(t, 3, opts.TopK)
	assert.Equal(t, 4, opts.Workers)
	assert.True(t, opts.Recursive)
	assert.True(t, opts.JSON)
	assert.Equal(t, []string{"a.gob", "b.gob"}, opts.LoadTables)
	assert.Equal(t, "out.gob", opts.SaveTable)
	assert.True(t, opts.NeedsTable())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(o *Options)
		expectedErrors int
	}{
		{"valid defaults", func(o *Options) {}, 0},
		{"zero top is allowed", func(o *Options) { o.TopK = 0 }, 0},
		{"negative top", func(o *Options) { o.TopK = -1 }, 1},
		{"negative workers", func(o *Options) { o.Workers = -2 }, 1},
		{"bad color", func(o *Options) { o.Color = "rainbow" }, 1},
		{"bad log level", func(o *Options) { o.LogLevel = "loud" }, 1},
		{"blank load-table", func(o *Options) {
			o.Frequency = true
			o.LoadTables = []string{" "}
		}, 1},
		{"load-table without frequency", func(o *Options) { o.LoadTables = []string{"t.gob"} }, 1},
		{"load-table with frequency", func(o *Options) {
			o.Frequency = true
			o.LoadTables = []string{"t.gob"}
		}, 0},
		{"load-table with save-table", func(o *Options) {
			o.SaveTable = "merged.gob"
			o.LoadTables = []string{"t.gob"}
		}, 0},
		{"several problems", func(o *Options) {
			o.TopK = -1
			o.Color = "x"
			o.LogLevel = "y"
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions()
			tt.mutate(opts)
			conflicts := opts.Validate()
			assert.Len(t, conflicts, tt.expectedErrors, "conflicts: %v", conflicts)

			err := opts.Check()
			if tt.expectedErrors == 0 {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, wcerrors.ErrInvalidInput))
			}
		})
	}
}

func TestOptions_NeedsTable(t *testing.T) {
	opts := NewOptions()
	assert.False(t, opts.NeedsTable())
	opts.SaveTable = "t.gob"
	assert.True(t, opts.NeedsTable())
	opts.SaveTable = ""
	opts.Frequency = true
	assert.True(t, opts.NeedsTable())
}

func TestServerOptions(t *testing.T) {
	t.Setenv("GOWC_ADDR", ":9999")
	t.Setenv("GOWC_LOG_LEVEL", "debug")

	opts := NewServerOptions()
	assert.Equal(t, ":9999", opts.Addr)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.Equal(t, DefaultTopK, opts.DefaultTopK)
	assert.NoError(t, opts.Check())

	flags := pflag.NewFlagSet("gowc-server", pflag.ContinueOnError)
	opts.AddFlags(flags)
	require.NoError(t, flags.Parse([]string{"--addr", ":7000", "--workers", "2", "--job-retention", "1h"}))
	assert.Equal(t, ":7000", opts.Addr)
	assert.Equal(t, 2, opts.Workers)
	assert.Equal(t, time.Hour, opts.JobRetention)

	bad := &ServerOptions{Workers: -1, DefaultTopK: -1, LogLevel: "nope"}
	assert.Len(t, bad.Validate(), 3)

	empty := &ServerOptions{}
	empty.ApplyDefaults()
	assert.Equal(t, ":8080", empty.Addr)
	assert.Equal(t, 4, empty.Workers)
	assert.NoError(t, empty.Check())
}
