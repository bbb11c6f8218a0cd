package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-wc/config"
	"github.com/gcbaptista/go-wc/internal/engine"
	"github.com/gcbaptista/go-wc/internal/input"
	"github.com/gcbaptista/go-wc/internal/logging"
	"github.com/gcbaptista/go-wc/internal/persistence"
	"github.com/gcbaptista/go-wc/internal/render"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// errInputsFailed reports that at least one input was unreadable. The
// inputs themselves were already reported by the renderer.
var errInputsFailed = errors.New("some inputs could not be read")

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func generateShellCompletion(cmd *cobra.Command, w io.Writer, shell string) error {
	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletion(w)
	case "zsh":
		return cmd.Root().GenZshCompletion(w)
	case "fish":
		return cmd.Root().GenFishCompletion(w, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(w)
	default:
		return usageError{fmt.Errorf("unsupported shell: %q", shell)}
	}
}

func newCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gowc [flags] [file]...",
		Short: "gowc counts lines, words and characters and ranks the most frequent words",
		Example: `
# Count lines, words and characters of two files:
$ gowc a.txt b.txt

# Top 5 words of every file below docs/, using 4 workers:
$ gowc -f -k 5 -r -j 4 docs/

# Keep the word table and merge it into a later run:
$ gowc -f --save-table words.gob a.txt
$ gowc -f --load-table words.gob b.txt

# Generate shell completion:
$ gowc --completion [bash|zsh|fish|powershell]`[1:],

		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	opts := config.NewOptions()
	flags := cmd.Flags()
	flags.SortFlags = false
	opts.AddFlags(flags)

	genCompletion := flags.String("completion", "",
		"generate completion script [bash|zsh|fish|powershell]")
	cmd.RegisterFlagCompletionFunc(
		"completion",
		func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{"bash", "zsh", "fish", "powershell"}, cobra.ShellCompDirectiveDefault
		},
	)
	cmd.RegisterFlagCompletionFunc(
		"color",
		func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{config.ColorAuto, config.ColorAlways, config.ColorNever}, cobra.ShellCompDirectiveDefault
		},
	)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if *genCompletion != "" {
			return generateShellCompletion(cmd, stdout, *genCompletion)
		}
		opts.ApplyDefaults()
		if err := opts.Check(); err != nil {
			return usageError{err}
		}
		log, err := logging.New(opts.LogLevel)
		if err != nil {
			return usageError{err}
		}
		defer log.Sync() //nolint:errcheck

		return runWC(cmd.Context(), opts, args, stdin, stdout, stderr, log)
	}
	return cmd
}

func runWC(ctx context.Context, opts *config.Options, args []string, stdin io.Reader,
	stdout, stderr io.Writer, log *zap.Logger) error {

	names := args
	if len(names) == 0 {
		names = []string{input.Stdin}
	}
	names = input.Expand(names, input.ExpandOptions{
		Recursive:      opts.Recursive,
		FollowSymlinks: opts.FollowSymlinks,
		Log:            log,
	})

	req := engine.Request{
		Inputs:    names,
		Provider:  input.NewFileProvider(stdin),
		Counts:    opts.CountsEnabled(),
		Frequency: opts.NeedsTable(),
		TopK:      opts.TopK,
	}
	if len(opts.LoadTables) > 0 {
		seed, err := persistence.LoadTables(opts.LoadTables)
		if err != nil {
			return err
		}
		req.Seed = seed
	}

	eng := engine.New(engine.WithWorkers(opts.Workers), engine.WithLogger(log))
	res, err := eng.Analyze(ctx, req)
	if err != nil {
		return err
	}

	if opts.SaveTable != "" {
		if err := persistence.SaveTable(opts.SaveTable, res.Table, names); err != nil {
			return err
		}
		log.Debug("saved frequency table", zap.String("path", opts.SaveTable),
			zap.Int("distinct_tokens", res.Table.Len()))
	}

	r := render.New(stdout, stderr, render.FromConfig(opts, render.UseColor(opts.Color, stdout)))
	if err := r.Render(&res.Report); err != nil {
		return err
	}
	if res.Report.Failed {
		return errInputsFailed
	}
	return nil
}

// run executes gowc with args and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newCommand(stdin, stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInputsFailed):
		return exitFailed
	case errors.As(err, new(usageError)):
		fmt.Fprintf(stderr, "gowc: %v\n", err)
		fmt.Fprintf(stderr, "Try 'gowc --help' for more information.\n")
		return exitUsage
	default:
		fmt.Fprintf(stderr, "gowc: %v\n", err)
		return exitFailed
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
