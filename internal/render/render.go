// Package render writes a model.Report the way wc does, or as JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/gcbaptista/go-wc/config"
	"github.com/gcbaptista/go-wc/internal/input"
	"github.com/gcbaptista/go-wc/model"
)

// Columns selects which counters are printed, always in the order lines,
// words, characters.
type Columns struct {
	Lines      bool
	Words      bool
	Characters bool
}

// Any reports whether at least one column is selected.
func (c Columns) Any() bool { return c.Lines || c.Words || c.Characters }

// Options configures a Renderer.
type Options struct {
	Columns   Columns
	Frequency bool // print the ranking
	JSON      bool
	Color     bool
}

// FromConfig derives render options from CLI options. color is the resolved
// color decision, see UseColor.
func FromConfig(o *config.Options, color bool) Options {
	return Options{
		Columns:   Columns{Lines: o.Lines, Words: o.Words, Characters: o.Characters},
		Frequency: o.Frequency,
		JSON:      o.JSON,
		Color:     color,
	}
}

// UseColor resolves a color mode against the file output is written to.
// In auto mode color is used only on a terminal and when NO_COLOR is unset.
func UseColor(mode string, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Renderer writes reports to an output and an error stream.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	opts   Options

	total *color.Color
	count *color.Color
	fail  *color.Color
}

// New returns a Renderer writing results to out and per-input errors to errOut.
func New(out, errOut io.Writer, opts Options) *Renderer {
	r := &Renderer{
		out:    out,
		errOut: errOut,
		opts:   opts,
		total:  color.New(color.Bold),
		count:  color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
	}
	for _, c := range []*color.Color{r.total, r.count, r.fail} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Render writes rep. Failed inputs are reported on the error stream as
// "wc: <name>: <reason>" in input order.
func (r *Renderer) Render(rep *model.Report) error {
	if r.opts.JSON {
		r.writeErrors(rep)
		return r.renderJSON(rep)
	}
	return r.renderText(rep)
}

func (r *Renderer) renderText(rep *model.Report) error {
	var b strings.Builder
	cols := r.opts.Columns
	for _, in := range rep.Inputs {
		if in.Failed() {
			// flush first so stdout and stderr interleave like wc
			if _, err := io.WriteString(r.out, b.String()); err != nil {
				return err
			}
			b.Reset()
			r.writeError(in)
			continue
		}
		if !cols.Any() {
			continue
		}
		b.WriteString(formatCounts(cols, in.Counts))
		if in.Name != input.Stdin {
			b.WriteString(" ")
			b.WriteString(in.Name)
		}
		b.WriteString("\n")
	}
	if cols.Any() && rep.ShowTotal() {
		b.WriteString(r.total.Sprint(formatCounts(cols, rep.Total) + " total"))
		b.WriteString("\n")
	}
	if r.opts.Frequency {
		for _, e := range rep.Ranking {
			b.WriteString(r.count.Sprintf("%8d", e.Count))
			b.WriteString(" ")
			b.WriteString(e.Token)
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

func formatCounts(cols Columns, c model.Counts) string {
	var s string
	if cols.Lines {
		s += fmt.Sprintf("%8d", c.Lines)
	}
	if cols.Words {
		s += fmt.Sprintf("%8d", c.Words)
	}
	if cols.Characters {
		s += fmt.Sprintf("%8d", c.Characters)
	}
	return s
}

func (r *Renderer) writeErrors(rep *model.Report) {
	for _, in := range rep.Inputs {
		if in.Failed() {
			r.writeError(in)
		}
	}
}

func (r *Renderer) writeError(in model.InputResult) {
	msg := in.Error
	if msg == "" {
		msg = in.Name + ": " + in.Err.Error()
	}
	r.fail.Fprintf(r.errOut, "wc: %s\n", msg)
}

// jsonReport is the JSON shape of a report. Counters that were not
// requested are left out.
type jsonReport struct {
	Inputs  []jsonInput         `json:"inputs"`
	Total   *model.Counts       `json:"total,omitempty"`
	Ranking []model.RankedEntry `json:"ranking,omitempty"`
	Failed  bool                `json:"failed"`
}

type jsonInput struct {
	Name   string        `json:"name"`
	Counts *model.Counts `json:"counts,omitempty"`
	Error  string        `json:"error,omitempty"`
}

func (r *Renderer) renderJSON(rep *model.Report) error {
	out := jsonReport{
		Inputs: make([]jsonInput, len(rep.Inputs)),
		Failed: rep.Failed,
	}
	cols := r.opts.Columns
	for i, in := range rep.Inputs {
		out.Inputs[i] = jsonInput{Name: in.Name, Error: in.Error}
		if !in.Failed() && cols.Any() {
			c := in.Counts
			out.Inputs[i].Counts = &c
		}
	}
	if cols.Any() {
		total := rep.Total
		out.Total = &total
	}
	if r.opts.Frequency {
		out.Ranking = rep.Ranking
	}

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
