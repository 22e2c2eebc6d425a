package reconcile

import (
	"fmt"
	"strings"
)

// Diagnostics describes how the inputs of a reconciliation disagreed.
// Disagreements are warnings, not errors: the reconciled document is
// usable regardless.
type Diagnostics struct {
	Operation Operation `json:"operation" yaml:"operation"`

	// Sources names the inputs in the order they were combined.
	Sources []string `json:"sources" yaml:"sources"`

	// Keys are the merge key columns.
	Keys []string `json:"keys,omitempty" yaml:"keys,omitempty"`

	// Rows and Columns describe the reconciled table.
	Rows    int `json:"rows" yaml:"rows"`
	Columns int `json:"columns" yaml:"columns"`

	// Append: columns only the other document had, and columns only the
	// first document had.
	MissingFromSelf  []string `json:"missing_from_self,omitempty" yaml:"missing_from_self,omitempty"`
	MissingFromOther []string `json:"missing_from_other,omitempty" yaml:"missing_from_other,omitempty"`

	// Merge: matched row count, then the key values of unmatched rows
	// joined by a space.
	Matched   int      `json:"matched,omitempty" yaml:"matched,omitempty"`
	LeftOnly  []string `json:"left_only,omitempty" yaml:"left_only,omitempty"`
	RightOnly []string `json:"right_only,omitempty" yaml:"right_only,omitempty"`

	// Collisions lists the non-key columns both documents had.
	Collisions []string `json:"collisions,omitempty" yaml:"collisions,omitempty"`

	// MissingKeys lists key columns one of the documents did not have.
	MissingKeys []string `json:"missing_keys,omitempty" yaml:"missing_keys,omitempty"`

	// Mismatches counts column mismatches for append and unmatched rows
	// for merge.
	Mismatches int `json:"mismatches" yaml:"mismatches"`

	// Provenance holds the origin of each merged row, by row index.
	Provenance []Provenance `json:"-" yaml:"-"`
}

// HasMismatches reports whether the inputs disagreed in any way.
func (d *Diagnostics) HasMismatches() bool {
	return d.Mismatches > 0 || len(d.Collisions) > 0 || len(d.MissingKeys) > 0
}

// Summary returns a one-line description of the reconciliation.
func (d *Diagnostics) Summary() string {
	switch d.Operation {
	case OperationMerge:
		return fmt.Sprintf("merged %s: %d rows, %d matched, %d left only, %d right only, %d column collisions",
			d.sourceList(), d.Rows, d.Matched, len(d.LeftOnly), len(d.RightOnly), len(d.Collisions))
	default:
		return fmt.Sprintf("appended %s: %d rows, %d columns, %d column mismatches",
			d.sourceList(), d.Rows, d.Columns, d.Mismatches)
	}
}

// Warnings returns one line per disagreement between the inputs.
func (d *Diagnostics) Warnings() []string {
	var warnings []string
	for _, c := range d.MissingFromSelf {
		warnings = append(warnings, fmt.Sprintf("column %q missing from %s", c, d.first()))
	}
	for _, c := range d.MissingFromOther {
		warnings = append(warnings, fmt.Sprintf("column %q missing from %s", c, d.rest()))
	}
	for _, k := range d.MissingKeys {
		warnings = append(warnings, fmt.Sprintf("key column %q missing, matched as empty", k))
	}
	for _, k := range d.LeftOnly {
		warnings = append(warnings, fmt.Sprintf("no match in %s for %q", d.rest(), k))
	}
	for _, k := range d.RightOnly {
		warnings = append(warnings, fmt.Sprintf("no match in %s for %q", d.first(), k))
	}
	for _, c := range d.Collisions {
		warnings = append(warnings, fmt.Sprintf("column %q present in both, kept twice", c))
	}
	return warnings
}

func (d *Diagnostics) first() string {
	if len(d.Sources) == 0 {
		return "first document"
	}
	return d.Sources[0]
}

func (d *Diagnostics) rest() string {
	if len(d.Sources) < 2 {
		return "other document"
	}
	return strings.Join(d.Sources[1:], ", ")
}

func (d *Diagnostics) sourceList() string {
	if len(d.Sources) == 0 {
		return "nothing"
	}
	return strings.Join(d.Sources, " + ")
}
