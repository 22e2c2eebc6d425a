// Package alekit loads, edits and reconciles ALE (Avid Log Exchange) files.
//
// A typical pipeline loads one or more documents, optionally combines them,
// runs a macro over the result and saves it:
//
//	a, err := alekit.Load("A001.ale")
//	b, err := alekit.Load("A002.ale")
//	doc, diag := alekit.Append(a, b)
//	for _, w := range diag.Warnings() {
//		log.Println(w)
//	}
//	result, err := alekit.RunMacro(macro.File("cleanup.csv"), doc)
//	err = alekit.Save(doc, "A001-A002.ale")
//
// The packages under pkg/ expose the same operations in more detail.
package alekit

import (
	"fmt"

	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/macro"
	"github.com/agentstation/alekit/pkg/reconcile"
)

// Load reads the ALE file at path. Malformed or unreadable files fail
// with a FormatError.
func Load(path string) (*ale.Document, error) {
	return ale.Load(path)
}

// Save writes doc to path in ALE format.
func Save(doc *ale.Document, path string) error {
	return doc.Save(path)
}

// ExportTable writes doc's table to path as plain tab-separated text.
func ExportTable(doc *ale.Document, path string) error {
	return doc.ExportTable(path)
}

// Append stacks b's rows under a's. See reconcile.Append.
func Append(a, b *ale.Document) (*ale.Document, *reconcile.Diagnostics) {
	return reconcile.Append(a, b)
}

// AppendAll appends docs left to right. See reconcile.AppendAll.
func AppendAll(docs ...*ale.Document) (*ale.Document, *reconcile.Diagnostics) {
	return reconcile.AppendAll(docs...)
}

// Merge joins a and b on the key columns, Tape and Start by default.
// See reconcile.Merge.
func Merge(a, b *ale.Document, keys ...string) (*ale.Document, *reconcile.Diagnostics) {
	return reconcile.Merge(a, b, keys...)
}

// RunMacro loads the macro from source and applies it to doc in place.
// Rules that fail are reported to the configured logger and listed in the
// result; they do not stop the run.
func RunMacro(source macro.Source, doc *ale.Document, opts ...Option) (*macro.Result, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	m, err := source.Load()
	if err != nil {
		return nil, fmt.Errorf("loading macro: %w", err)
	}
	return macro.Run(m, doc, cfg.macroOptions()...)
}
