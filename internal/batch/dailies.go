package batch

import (
	"context"
	"path/filepath"

	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/macro"
	"github.com/agentstation/alekit/pkg/reconcile"
)

// DailiesResult is the outcome of a dailies merge.
type DailiesResult struct {
	Document *ale.Document          `json:"-" yaml:"-"`
	DR       *reconcile.Diagnostics `json:"dr" yaml:"dr"`
	SS       *reconcile.Diagnostics `json:"ss" yaml:"ss"`
	Merge    *reconcile.Diagnostics `json:"merge" yaml:"merge"`
	Macro    *macro.Result          `json:"macro,omitempty" yaml:"macro,omitempty"`
}

// Warnings returns the reconciliation warnings of every stage in order.
func (d *DailiesResult) Warnings() []string {
	var out []string
	for _, diag := range []*reconcile.Diagnostics{d.DR, d.SS, d.Merge} {
		if diag != nil {
			out = append(out, diag.Warnings()...)
		}
	}
	return out
}

// Dailies reconciles a dailies folder. dir must contain a DR folder of
// picture ALEs and an SS folder of sound ALEs. Each folder is appended into
// one document, DR is merged with SS on keys (the default key columns when
// empty), and the runner's macro, if any, is applied to the merged
// document. The merged document is named after dir.
func (r *Runner) Dailies(ctx context.Context, dir string, keys ...string) (*DailiesResult, error) {
	drDocs, err := loadFolder(dir, constants.DailiesDRFolder)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ssDocs, err := loadFolder(dir, constants.DailiesSSFolder)
	if err != nil {
		return nil, err
	}

	res := &DailiesResult{}
	dr, diag := reconcile.AppendAll(drDocs...)
	res.DR = diag
	ss, diag := reconcile.AppendAll(ssDocs...)
	res.SS = diag

	merged, diag := reconcile.Merge(dr, ss, keys...)
	res.Merge = diag
	merged.Name = filepath.Base(filepath.Clean(dir))
	merged.Path = ""
	res.Document = merged

	r.logger.Info().
		Str("dailies", dir).
		Int("dr_files", len(drDocs)).
		Int("ss_files", len(ssDocs)).
		Msg(diag.Summary())
	for _, w := range res.Warnings() {
		r.logger.Warn().Str("dailies", dir).Msg(w)
	}

	if r.macro != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := macro.Run(r.macro, merged, macro.WithLogger(r.logger))
		res.Macro = result
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func loadFolder(dir, name string) ([]*ale.Document, error) {
	path := filepath.Join(dir, name)
	docs, err := ale.LoadDir(path)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.NewNotFoundError("ALE files", path)
	}
	return docs, nil
}
