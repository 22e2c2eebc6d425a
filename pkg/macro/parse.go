// Package macro decodes and runs macros: ordered lists of declarative
// column editing rules applied to an ALE document.
//
// A macro file is comma-separated text. The first record is a caption and
// is always skipped; blank records and records whose first field starts
// with # are comments. Every other record is a keyword followed by its
// operands:
//
//	Camera log cleanup
//	RENAME,Tape,TapeID
//	REMATCH,Name,^[A-Z]\d{3}C\d{3}
//	SET,Label,{TapeID}_{Start}
//
// Records are decoded once, when the macro is parsed. A record that cannot
// be decoded becomes an invalid step: running the macro reports it and
// carries on with the next rule.
package macro

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/errors"
)

// Macro is a decoded, ordered list of steps.
type Macro struct {
	Name        string
	Description string
	Steps       []Step
}

// Step is one rule of a macro. Exactly one of Action and Err is set.
type Step struct {
	// Line is the 1-based line of the rule in its source, 0 when unknown.
	Line int

	// Record is the rule as written.
	Record []string

	Action Action
	Err    error
}

// Valid reports whether the step decoded.
func (s Step) Valid() bool {
	return s.Err == nil
}

// Actions returns the decoded actions in order, skipping invalid steps.
func (m *Macro) Actions() []Action {
	actions := make([]Action, 0, len(m.Steps))
	for _, s := range m.Steps {
		if s.Valid() {
			actions = append(actions, s.Action)
		}
	}
	return actions
}

// Errs returns the decode errors of the invalid steps.
func (m *Macro) Errs() []error {
	var errs []error
	for _, s := range m.Steps {
		if !s.Valid() {
			errs = append(errs, s.Err)
		}
	}
	return errs
}

// Parse reads a macro in comma-separated form.
func Parse(r io.Reader) (*Macro, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	m := &Macro{}
	caption := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &errors.MacroError{Line: pe.Line, Message: "malformed macro file", Err: err}
			}
			return nil, errors.WrapIO("read", "macro", err)
		}
		line, _ := reader.FieldPos(0)

		if caption {
			caption = false
			m.Description = strings.TrimSpace(strings.Join(record, " "))
			continue
		}
		if step, ok := decodeStep(line, record); ok {
			m.Steps = append(m.Steps, step)
		}
	}
	return m, nil
}

// ParseRecords decodes rules that have already been split into fields.
// There is no caption; comment and blank records are skipped. Line numbers
// are the records' 1-based positions.
func ParseRecords(records [][]string) *Macro {
	m := &Macro{}
	for i, record := range records {
		if step, ok := decodeStep(i+1, record); ok {
			m.Steps = append(m.Steps, step)
		}
	}
	return m
}

// FromActions builds a macro from decoded actions.
func FromActions(actions ...Action) *Macro {
	m := &Macro{Steps: make([]Step, 0, len(actions))}
	for _, a := range actions {
		m.Steps = append(m.Steps, Step{Record: a.Record(), Action: a})
	}
	return m
}

// Write writes the macro in comma-separated form, caption first. Invalid
// steps are written as they were read.
func (m *Macro) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	caption := m.Description
	if caption == "" {
		caption = m.Name
	}
	if err := cw.Write([]string{caption}); err != nil {
		return err
	}
	for _, s := range m.Steps {
		if err := cw.Write(s.Record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func decodeStep(line int, record []string) (Step, bool) {
	if isComment(record) {
		return Step{}, false
	}
	step := Step{Line: line, Record: append([]string(nil), record...)}
	action, err := Decode(record...)
	if err != nil {
		var me *errors.MacroError
		if errors.As(err, &me) {
			me.Line = line
		}
		step.Err = err
	} else {
		step.Action = action
	}
	return step, true
}

func isComment(record []string) bool {
	if len(record) == 0 {
		return true
	}
	if strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
		return true
	}
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Decode builds an action from a record: a keyword followed by operands.
// Operands are used verbatim. Failures are MacroErrors.
func Decode(record ...string) (Action, error) {
	if len(record) == 0 {
		return nil, errors.NewMacroError(0, "", "empty record")
	}
	kind, ok := ParseKind(record[0])
	if !ok {
		return nil, errors.NewMacroError(0, strings.TrimSpace(record[0]), "unrecognized macro action")
	}
	if err := kind.checkArity(len(record)); err != nil {
		return nil, &errors.MacroError{Action: kind.String(), Message: err.Error(), Err: err}
	}

	args := record[1:]
	switch kind {
	case KindRename:
		return &Rename{Column: args[0], NewName: args[1]}, nil

	case KindDelete:
		return &Delete{Column: args[0]}, nil

	case KindRegexMatch:
		re, err := compile(kind, args[1])
		if err != nil {
			return nil, err
		}
		return &RegexMatch{Column: args[0], Pattern: re}, nil

	case KindRegexSubstitute:
		re, err := compile(kind, args[1])
		if err != nil {
			return nil, err
		}
		repl, err := translateReplacement(re, args[2])
		if err != nil {
			return nil, &errors.MacroError{Action: kind.String(), Message: err.Error(), Err: err}
		}
		return &RegexSubstitute{Column: args[0], Pattern: re, Replacement: repl, Source: args[2]}, nil

	case KindSet:
		return &SetColumn{Column: args[0], Template: args[1]}, nil

	case KindInclude:
		var columns []string
		seen := make(map[string]bool, len(args))
		for _, c := range args {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
		return &Include{Columns: columns}, nil

	case KindHeader:
		key := strings.TrimSpace(args[0])
		if key == "" || strings.IndexFunc(key, unicode.IsSpace) >= 0 {
			return nil, errors.NewMacroError(0, kind.String(), fmt.Sprintf("heading key %q must be a single word", args[0]))
		}
		if ale.IsMarker(key) {
			return nil, errors.NewMacroError(0, kind.String(), fmt.Sprintf("heading key %q is a section marker", key))
		}
		if strings.ContainsAny(args[1], "\r\n") {
			return nil, errors.NewMacroError(0, kind.String(), "heading value contains a line break")
		}
		return &EditHeader{Key: key, Value: strings.TrimSpace(args[1])}, nil

	case KindMap:
		a := &MapValues{Column: args[0]}
		for i := 1; i < len(args); i += 2 {
			if args[i] == "" {
				return nil, errors.NewMacroError(0, kind.String(), fmt.Sprintf("empty value to replace in pair %d", (i+1)/2))
			}
			a.Pairs = append(a.Pairs, Pair{From: args[i], To: args[i+1]})
		}
		return a, nil
	}
	return nil, errors.NewMacroError(0, kind.String(), "unrecognized macro action")
}

// MustDecode is like Decode but panics on failure. It is meant for
// macros written in code.
func MustDecode(record ...string) Action {
	a, err := Decode(record...)
	if err != nil {
		panic(err)
	}
	return a
}

func compile(kind Kind, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &errors.MacroError{Action: kind.String(), Message: fmt.Sprintf("invalid pattern %q", pattern), Err: err}
	}
	return re, nil
}

// translateReplacement converts a replacement written with \N, \g<N> and
// \g<name> group references into Go expansion syntax. A literal $ is
// escaped.
func translateReplacement(re *regexp.Regexp, repl string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		switch {
		case c == '$':
			b.WriteString("$$")

		case c != '\\':
			b.WriteByte(c)

		case i+1 == len(repl):
			return "", fmt.Errorf("replacement %q ends with a bare backslash", repl)

		default:
			i++
			next := repl[i]
			switch {
			case next == '0':
				return "", fmt.Errorf("replacement %q uses an octal escape, which is not supported", repl)

			case next >= '1' && next <= '9':
				j := i + 1
				if j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
					j++
				}
				if err := writeGroup(&b, re, repl[i:j]); err != nil {
					return "", err
				}
				i = j - 1

			case next == 'g':
				end := strings.IndexByte(repl[i:], '>')
				if i+1 >= len(repl) || repl[i+1] != '<' || end < 0 {
					return "", fmt.Errorf("replacement %q has a malformed \\g<...> reference", repl)
				}
				if err := writeGroup(&b, re, repl[i+2:i+end]); err != nil {
					return "", err
				}
				i += end

			case next == '\\':
				b.WriteByte('\\')
			case next == 'n':
				b.WriteByte('\n')
			case next == 't':
				b.WriteByte('\t')
			default:
				b.WriteByte('\\')
				b.WriteByte(next)
			}
		}
	}
	return b.String(), nil
}

func writeGroup(b *strings.Builder, re *regexp.Regexp, ref string) error {
	if n, err := strconv.Atoi(ref); err == nil {
		if n > re.NumSubexp() {
			return fmt.Errorf("invalid group reference %d", n)
		}
	} else if ref == "" || re.SubexpIndex(ref) < 0 {
		return fmt.Errorf("unknown group name %q", ref)
	}
	b.WriteString("${" + ref + "}")
	return nil
}
