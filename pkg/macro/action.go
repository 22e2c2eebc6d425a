package macro

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/errors"
)

// Action is a single decoded macro rule. The set of actions is closed:
// every implementation lives in this package.
type Action interface {
	// Kind returns the action kind.
	Kind() Kind

	// Apply edits doc in place. Warnings are non-fatal problems, such as
	// INCLUDE naming a column the table does not have.
	Apply(doc *ale.Document) (warnings []string, err error)

	// Record returns the action as a macro record, keyword first.
	Record() []string

	// String describes the action in log output.
	String() string

	sealed()
}

// Rename renames Column to NewName.
type Rename struct {
	Column  string
	NewName string
}

// Delete removes Column.
type Delete struct {
	Column string
}

// RegexMatch replaces every cell of Column with the concatenation of the
// pattern's matches in it. When the pattern has capture groups, the groups
// of each match are concatenated instead.
type RegexMatch struct {
	Column  string
	Pattern *regexp.Regexp
}

// RegexSubstitute replaces every match of Pattern in Column.
// Replacement uses Go's ${N} expansion syntax; Source holds the
// replacement as it was written.
type RegexSubstitute struct {
	Column      string
	Pattern     *regexp.Regexp
	Replacement string
	Source      string
}

// SetColumn sets every cell of Column from Template, replacing each
// {Other Column} placeholder with the row's value in that column.
type SetColumn struct {
	Column   string
	Template string
}

// Include reduces the table to Columns, in that order.
type Include struct {
	Columns []string
}

// EditHeader sets a heading entry.
type EditHeader struct {
	Key   string
	Value string
}

// Pair is one literal replacement of a MapValues action.
type Pair struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// MapValues replaces literal text in Column, pair by pair. Each pair sees
// the output of the pairs before it.
type MapValues struct {
	Column string
	Pairs  []Pair
}

var placeholder = regexp.MustCompile(`\{[A-Za-z0-9 _-]+\}`)

func (*Rename) Kind() Kind          { return KindRename }
func (*Delete) Kind() Kind          { return KindDelete }
func (*RegexMatch) Kind() Kind      { return KindRegexMatch }
func (*RegexSubstitute) Kind() Kind { return KindRegexSubstitute }
func (*SetColumn) Kind() Kind       { return KindSet }
func (*Include) Kind() Kind         { return KindInclude }
func (*EditHeader) Kind() Kind      { return KindHeader }
func (*MapValues) Kind() Kind       { return KindMap }

func (*Rename) sealed()          {}
func (*Delete) sealed()          {}
func (*RegexMatch) sealed()      {}
func (*RegexSubstitute) sealed() {}
func (*SetColumn) sealed()       {}
func (*Include) sealed()         {}
func (*EditHeader) sealed()      {}
func (*MapValues) sealed()       {}

// Apply renames the column. Renaming onto an existing column fails.
func (a *Rename) Apply(doc *ale.Document) ([]string, error) {
	return nil, dataError(a, doc.Table.RenameColumn(a.Column, a.NewName))
}

// Apply removes the column.
func (a *Delete) Apply(doc *ale.Document) ([]string, error) {
	return nil, dataError(a, doc.Table.DeleteColumn(a.Column))
}

// Apply keeps only the matched text of each cell.
func (a *RegexMatch) Apply(doc *ale.Document) ([]string, error) {
	if err := requireColumns(a, doc, a.Column); err != nil {
		return nil, err
	}
	groups := a.Pattern.NumSubexp() > 0
	return nil, dataError(a, doc.Table.MapColumn(a.Column, func(r ale.Row) (string, error) {
		var b strings.Builder
		for _, m := range a.Pattern.FindAllStringSubmatch(r.Get(a.Column), -1) {
			if !groups {
				b.WriteString(m[0])
				continue
			}
			for _, g := range m[1:] {
				b.WriteString(g)
			}
		}
		return b.String(), nil
	}))
}

// Apply substitutes every match in each cell.
func (a *RegexSubstitute) Apply(doc *ale.Document) ([]string, error) {
	if err := requireColumns(a, doc, a.Column); err != nil {
		return nil, err
	}
	return nil, dataError(a, doc.Table.MapColumn(a.Column, func(r ale.Row) (string, error) {
		return a.Pattern.ReplaceAllString(r.Get(a.Column), a.Replacement), nil
	}))
}

// Apply renders the template for every row. Every referenced column is
// checked before any cell changes, so a missing column leaves the target
// untouched.
func (a *SetColumn) Apply(doc *ale.Document) ([]string, error) {
	if err := requireColumns(a, doc, a.References()...); err != nil {
		return nil, err
	}
	return nil, dataError(a, doc.Table.MapColumn(a.Column, func(r ale.Row) (string, error) {
		return placeholder.ReplaceAllStringFunc(a.Template, func(tag string) string {
			return r.Get(tag[1 : len(tag)-1])
		}), nil
	}))
}

// References returns the columns the template refers to, in order of
// first appearance.
func (a *SetColumn) References() []string {
	var refs []string
	seen := make(map[string]bool)
	for _, tag := range placeholder.FindAllString(a.Template, -1) {
		name := tag[1 : len(tag)-1]
		if !seen[name] {
			seen[name] = true
			refs = append(refs, name)
		}
	}
	return refs
}

// Apply selects the listed columns. Columns the table lacks are skipped
// and returned as warnings.
func (a *Include) Apply(doc *ale.Document) ([]string, error) {
	var warnings []string
	for _, c := range doc.Table.Select(a.Columns) {
		warnings = append(warnings, fmt.Sprintf("column %q could not be included, not in table", c))
	}
	return warnings, nil
}

// Apply sets the heading entry.
func (a *EditHeader) Apply(doc *ale.Document) ([]string, error) {
	doc.Heading.Set(a.Key, a.Value)
	return nil, nil
}

// Apply replaces each pair's From with its To in every cell.
func (a *MapValues) Apply(doc *ale.Document) ([]string, error) {
	if err := requireColumns(a, doc, a.Column); err != nil {
		return nil, err
	}
	return nil, dataError(a, doc.Table.MapColumn(a.Column, func(r ale.Row) (string, error) {
		v := r.Get(a.Column)
		for _, p := range a.Pairs {
			v = strings.ReplaceAll(v, p.From, p.To)
		}
		return v, nil
	}))
}

func (a *Rename) Record() []string { return []string{KindRename.String(), a.Column, a.NewName} }
func (a *Delete) Record() []string { return []string{KindDelete.String(), a.Column} }
func (a *RegexMatch) Record() []string {
	return []string{KindRegexMatch.String(), a.Column, a.Pattern.String()}
}
func (a *RegexSubstitute) Record() []string {
	return []string{KindRegexSubstitute.String(), a.Column, a.Pattern.String(), a.Source}
}
func (a *SetColumn) Record() []string { return []string{KindSet.String(), a.Column, a.Template} }
func (a *Include) Record() []string {
	return append([]string{KindInclude.String()}, a.Columns...)
}
func (a *EditHeader) Record() []string { return []string{KindHeader.String(), a.Key, a.Value} }
func (a *MapValues) Record() []string {
	record := []string{KindMap.String(), a.Column}
	for _, p := range a.Pairs {
		record = append(record, p.From, p.To)
	}
	return record
}

func (a *Rename) String() string          { return describe(a) }
func (a *Delete) String() string          { return describe(a) }
func (a *RegexMatch) String() string      { return describe(a) }
func (a *RegexSubstitute) String() string { return describe(a) }
func (a *SetColumn) String() string       { return describe(a) }
func (a *Include) String() string         { return describe(a) }
func (a *EditHeader) String() string      { return describe(a) }
func (a *MapValues) String() string       { return describe(a) }

func describe(a Action) string {
	record := a.Record()
	quoted := make([]string, len(record)-1)
	for i, f := range record[1:] {
		quoted[i] = fmt.Sprintf("%q", f)
	}
	return record[0] + " " + strings.Join(quoted, " ")
}

// requireColumns fails with a DataError naming the first column missing
// from doc.
func requireColumns(a Action, doc *ale.Document, columns ...string) error {
	for _, c := range columns {
		if !doc.Table.HasColumn(c) {
			return &errors.DataError{Column: c, Action: a.String(), Message: "column not in table"}
		}
	}
	return nil
}

// dataError attributes a table DataError to the action.
func dataError(a Action, err error) error {
	var de *errors.DataError
	if errors.As(err, &de) && de.Action == "" {
		attributed := *de
		attributed.Action = a.String()
		return &attributed
	}
	return err
}
