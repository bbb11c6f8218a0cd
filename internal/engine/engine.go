// Package engine runs an analysis over a set of named inputs: the basic
// counters per input, a frequency table per input merged into a running
// total, and the final top-K ranking.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-wc/internal/counter"
	wcerrors "github.com/gcbaptista/go-wc/internal/errors"
	"github.com/gcbaptista/go-wc/internal/frequency"
	"github.com/gcbaptista/go-wc/internal/input"
	"github.com/gcbaptista/go-wc/internal/logging"
	"github.com/gcbaptista/go-wc/internal/metrics"
	"github.com/gcbaptista/go-wc/model"
)

// Request describes one analysis run.
type Request struct {
	Inputs   []string       // input names, in reporting order
	Provider input.Provider // supplies the text of each input

	Counts    bool // compute lines, words and characters
	Frequency bool // build frequency tables and rank them
	TopK      int  // ranking size; <= 0 gives an empty ranking

	// Seed is merged into the total before any input, e.g. tables loaded
	// from earlier runs. It is not modified.
	Seed frequency.Table

	// OnProgress, if set, is called after each input with the number of
	// inputs finished so far. Calls are serialized.
	OnProgress func(done, total int)
}

// Result is the outcome of Analyze.
type Result struct {
	Report model.Report
	// Table is the merged frequency table of every readable input plus the
	// seed. It is nil unless the request asked for frequency.
	Table frequency.Table
}

// Engine analyzes inputs. It holds no per-run state and may be shared.
type Engine struct {
	workers int
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets how many inputs are processed concurrently.
// Values below 2 select the sequential path.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics sets the Prometheus collectors updated by each run.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logging.OrNop(e.log).Named("engine")
	return e
}

// Analyze processes every input of req and builds the report.
//
// An unreadable input is recorded on its InputResult and contributes to no
// count or table; the remaining inputs are still processed. The only error
// returned is the context's, when it is cancelled before all inputs are done.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	run := &run{
		req:     &req,
		results: make([]model.InputResult, len(req.Inputs)),
	}
	if req.Frequency {
		run.total = frequency.New()
		run.total.MergeFrom(req.Seed)
	}

	var err error
	if e.workers > 1 && len(req.Inputs) > 1 {
		err = e.analyzeParallel(ctx, run)
	} else {
		err = e.analyzeSequential(ctx, run)
	}
	if err != nil {
		return nil, err
	}

	res := run.result()
	e.metrics.ObserveAnalysis(time.Since(start))
	e.log.Debug("analysis complete",
		zap.Int("inputs", len(req.Inputs)),
		zap.Int("failed", len(req.Inputs)-res.Report.Succeeded()),
		zap.Int("distinct_tokens", res.Table.Len()),
		zap.Duration("took", time.Since(start)))
	return res, nil
}

func (e *Engine) analyzeSequential(ctx context.Context, r *run) error {
	for i, name := range r.req.Inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, table := e.analyzeOne(ctx, r.req, name)
		r.record(i, res, table)
	}
	return ctx.Err()
}

// analyzeParallel processes inputs on a bounded pool. Each worker builds its
// own table; only the merge into the shared total is serialized.
func (e *Engine) analyzeParallel(ctx context.Context, r *run) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, name := range r.req.Inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, table := e.analyzeOne(gctx, r.req, name)
			r.record(i, res, table)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// analyzeOne reads and analyzes a single input. The returned table is nil
// when the input failed or frequency was not requested.
func (e *Engine) analyzeOne(ctx context.Context, req *Request, name string) (model.InputResult, frequency.Table) {
	res := model.InputResult{Name: name}
	text, err := req.Provider.Read(ctx, name)
	if err != nil {
		if ctx.Err() != nil {
			// Cancellation is not an unreadable input; Analyze returns ctx.Err().
			res.Err = ctx.Err()
			return res, nil
		}
		uerr := wcerrors.NewInputUnreadableError(name, err)
		res.Err = uerr
		res.Error = uerr.Error()
		e.metrics.ObserveFailure()
		e.log.Debug("input unreadable", zap.String("input", name), zap.Error(err))
		return res, nil
	}

	tokens := 0
	if req.Counts {
		res.Counts = counter.Count(text)
		tokens = res.Counts.Words
	}
	var table frequency.Table
	if req.Frequency {
		table = frequency.New()
		tokens = table.Accumulate(text)
	}
	e.metrics.ObserveInput(len(text), tokens)
	return res, table
}

// run is the mutable state of one Analyze call.
type run struct {
	req     *Request
	mu      sync.Mutex
	results []model.InputResult
	total   frequency.Table
	done    int
}

func (r *run) record(i int, res model.InputResult, table frequency.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[i] = res
	if table != nil {
		r.total.MergeFrom(table)
	}
	r.done++
	if r.req.OnProgress != nil {
		r.req.OnProgress(r.done, len(r.req.Inputs))
	}
}

func (r *run) result() *Result {
	report := model.Report{Inputs: r.results}
	for _, in := range r.results {
		if in.Failed() {
			report.Failed = true
			continue
		}
		report.Total = report.Total.Add(in.Counts)
	}
	if r.req.Frequency {
		report.Ranking = frequency.SelectTop(r.total, r.req.TopK)
	}
	return &Result{Report: report, Table: r.total}
}
