package macro

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/logging"
)

// State is the lifecycle position of an Interpreter.
type State int

// Interpreter states.
const (
	StateIdle State = iota
	StateRunning
	StateApplying
	StateDone
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateApplying:
		return "applying"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index    int      `json:"index" yaml:"index"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Action   string   `json:"action" yaml:"action"`
	Applied  bool     `json:"applied" yaml:"applied"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Err      error    `json:"-" yaml:"-"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result summarizes a macro run.
type Result struct {
	Macro    string        `json:"macro" yaml:"macro"`
	Document string        `json:"document" yaml:"document"`
	Applied  []StepResult  `json:"applied" yaml:"applied"`
	Failed   []StepResult  `json:"failed,omitempty" yaml:"failed,omitempty"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// OK reports whether every step applied.
func (r *Result) OK() bool {
	return len(r.Failed) == 0
}

// Errs returns the errors of the failed steps.
func (r *Result) Errs() []error {
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// Interpreter runs the steps of a macro against documents, one step at a
// time, in order.
type Interpreter struct {
	macro  *Macro
	logger *zerolog.Logger
	hook   func(StepResult)
	state  State
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger failed steps and warnings are reported to.
func WithLogger(logger *zerolog.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithStepHook registers fn to be called after every step.
func WithStepHook(fn func(StepResult)) Option {
	return func(in *Interpreter) {
		in.hook = fn
	}
}

// NewInterpreter creates an interpreter for m.
func NewInterpreter(m *Macro, opts ...Option) *Interpreter {
	in := &Interpreter{
		macro:  m,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// State returns the interpreter's current state.
func (in *Interpreter) State() State {
	return in.state
}

// Run applies every step to doc in order. A step that fails with a
// MacroError or DataError is logged, recorded in the result, and skipped.
// Any other failure stops the run and is returned along with the partial
// result.
func (in *Interpreter) Run(doc *ale.Document) (*Result, error) {
	start := time.Now()
	logger := logging.ForDocument(in.logger, doc.Name).With().Str("macro", in.macro.Name).Logger()

	result := &Result{Macro: in.macro.Name, Document: doc.Name}
	in.state = StateRunning
	defer func() {
		in.state = StateDone
		result.Duration = time.Since(start)
	}()

	logger.Debug().Int("steps", len(in.macro.Steps)).Msg("Running macro")

	for i, step := range in.macro.Steps {
		in.state = StateApplying
		sr := StepResult{Index: i, Line: step.Line, Action: describeStep(step)}

		err := step.Err
		if err == nil {
			sr.Warnings, err = step.Action.Apply(doc)
		}
		in.state = StateRunning

		for _, w := range sr.Warnings {
			logger.Warn().Int("line", step.Line).Str("action", sr.Action).Msg(w)
		}
		result.Warnings = append(result.Warnings, sr.Warnings...)

		switch {
		case err == nil:
			sr.Applied = true
			result.Applied = append(result.Applied, sr)
		case errors.IsIsolated(err):
			sr.Err, sr.Error = err, err.Error()
			logger.Error().Err(err).Int("line", step.Line).Str("action", sr.Action).Msg("Macro step failed, continuing")
			result.Failed = append(result.Failed, sr)
		default:
			sr.Err, sr.Error = err, err.Error()
			result.Failed = append(result.Failed, sr)
			in.notify(sr)
			return result, fmt.Errorf("macro %q step %d (%s): %w", in.macro.Name, i+1, sr.Action, err)
		}
		in.notify(sr)
	}

	logger.Debug().
		Int("applied", len(result.Applied)).
		Int("failed", len(result.Failed)).
		Msg("Macro finished")
	return result, nil
}

func (in *Interpreter) notify(sr StepResult) {
	if in.hook != nil {
		in.hook(sr)
	}
}

// Run applies m to doc with a new interpreter.
func Run(m *Macro, doc *ale.Document, opts ...Option) (*Result, error) {
	return NewInterpreter(m, opts...).Run(doc)
}

func describeStep(s Step) string {
	if s.Action != nil {
		return s.Action.String()
	}
	if len(s.Record) == 0 {
		return ""
	}
	return fmt.Sprintf("%q", s.Record)
}
