// Package batch applies one macro to many ALE files.
//
// Every file runs through its own load, macro and save pipeline on a
// bounded pool of workers. A file that fails does not affect the others;
// its error is recorded in the report.
package batch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/logging"
	"github.com/agentstation/alekit/pkg/macro"
)

// FileResult is the outcome of processing one file.
type FileResult struct {
	Source   string        `json:"source" yaml:"source"`
	Output   string        `json:"output,omitempty" yaml:"output,omitempty"`
	Rows     int           `json:"rows" yaml:"rows"`
	Applied  int           `json:"applied" yaml:"applied"`
	Failed   int           `json:"failed" yaml:"failed"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Started  utc.Time      `json:"started" yaml:"started"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Err      error         `json:"-" yaml:"-"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the file was processed and saved.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// Report summarizes a batch run. Files are listed in input order.
type Report struct {
	Macro     string        `json:"macro" yaml:"macro"`
	Files     []FileResult  `json:"files" yaml:"files"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	Failed    int           `json:"failed" yaml:"failed"`
	Started   utc.Time      `json:"started" yaml:"started"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// OK reports whether every file was processed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Runner processes files with a macro.
type Runner struct {
	macro   *macro.Macro
	workers int
	suffix  string
	outDir  string
	logger  *zerolog.Logger
	hook    func(FileResult)
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of files processed concurrently. Values
// below one use constants.DefaultWorkers; values above
// constants.MaxWorkers are capped.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithSuffix sets the text inserted before the extension of output files.
func WithSuffix(suffix string) Option {
	return func(r *Runner) {
		r.suffix = suffix
	}
}

// WithOutputDir writes outputs to dir instead of next to each source.
func WithOutputDir(dir string) Option {
	return func(r *Runner) {
		r.outDir = dir
	}
}

// WithLogger sets the runner's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithFileHook registers a function called as each file finishes.
// Calls are serialized.
func WithFileHook(fn func(FileResult)) Option {
	return func(r *Runner) {
		r.hook = fn
	}
}

// New creates a Runner for m. m may be nil for runs that only reconcile.
func New(m *macro.Macro, opts ...Option) *Runner {
	r := &Runner{
		macro:  m,
		suffix: constants.DefaultBatchSuffix,
	}
	for _, opt := range opts {
		opt(r)
	}
	switch {
	case r.workers < 1:
		r.workers = constants.DefaultWorkers
	case r.workers > constants.MaxWorkers:
		r.workers = constants.MaxWorkers
	}
	if r.logger == nil {
		r.logger = logging.Default()
	}
	return r
}

// Workers returns the size of the worker pool.
func (r *Runner) Workers() int {
	return r.workers
}

// OutputPath returns where the processed copy of src is written.
func (r *Runner) OutputPath(src string) string {
	return OutputPath(src, r.suffix, r.outDir)
}

// OutputPath inserts suffix before the extension of src. The result is
// placed in dir, or next to src when dir is empty.
func OutputPath(src, suffix, dir string) string {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + suffix + ext
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, name)
}

// IsOutput reports whether path looks like a file this runner produced.
func (r *Runner) IsOutput(path string) bool {
	if r.suffix == "" {
		return false
	}
	base := filepath.Base(path)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), r.suffix)
}

type job struct {
	index int
	path  string
}

// Run processes paths and returns a report listing every file. Cancelling
// ctx stops new files from starting; files not started are reported with
// the context's error, which Run also returns.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	if r.macro == nil {
		return nil, errors.NewValidationError("macro", nil, "batch run requires a macro")
	}

	report := &Report{
		Macro:   r.macro.Name,
		Files:   make([]FileResult, len(paths)),
		Started: utc.Now(),
	}
	if len(paths) == 0 {
		return report, nil
	}

	workers := r.workers
	if workers > len(paths) {
		workers = len(paths)
	}
	r.logger.Info().
		Str("macro", r.macro.Name).
		Int("files", len(paths)).
		Int("workers", workers).
		Msg("Starting batch run")

	jobs := make(chan job)
	var (
		wg     sync.WaitGroup
		hookMu sync.Mutex
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := r.process(j.path)
				report.Files[j.index] = res
				if r.hook != nil {
					hookMu.Lock()
					r.hook(res)
					hookMu.Unlock()
				}
			}
		}()
	}

	next := 0
dispatch:
	for ; next < len(paths); next++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- job{index: next, path: paths[next]}:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(paths); i++ {
		report.Files[i] = FileResult{Source: paths[i], Err: ctx.Err(), Error: ctx.Err().Error()}
	}
	for _, f := range report.Files {
		if f.OK() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	report.Duration = time.Since(report.Started.Time)

	r.logger.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("Batch run finished")

	if next < len(paths) {
		return report, ctx.Err()
	}
	return report, nil
}

// process runs the pipeline for one file. The document it loads is owned
// by the calling goroutine.
func (r *Runner) process(path string) FileResult {
	res := FileResult{Source: path, Started: utc.Now()}
	logger := logging.ForDocument(r.logger, filepath.Base(path))

	fail := func(err error) FileResult {
		res.Err = err
		res.Error = err.Error()
		res.Duration = time.Since(res.Started.Time)
		logger.Error().Err(err).Msg("Batch file failed")
		return res
	}

	doc, err := ale.Load(path)
	if err != nil {
		return fail(err)
	}

	result, err := macro.Run(r.macro, doc, macro.WithLogger(r.logger))
	if result != nil {
		res.Applied = len(result.Applied)
		res.Failed = len(result.Failed)
		res.Warnings = result.Warnings
	}
	if err != nil {
		return fail(err)
	}

	out := r.OutputPath(path)
	if err := doc.Save(out); err != nil {
		return fail(err)
	}
	res.Output = out
	res.Rows = doc.Table.Len()
	res.Duration = time.Since(res.Started.Time)
	logger.Debug().Str("output", out).Int("rows", res.Rows).Msg("Batch file saved")
	return res
}
