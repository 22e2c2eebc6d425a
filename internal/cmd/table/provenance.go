package table

import (
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/reconcile"
)

// ProvenanceHeader is the extra column added by MergeToTableData.
const ProvenanceHeader = "Origin"

// MergeToTableData converts a merged document to table format with a
// leading column showing where each row came from. The column exists only
// in the rendered table, never in the document.
func MergeToTableData(doc *ale.Document, diag *reconcile.Diagnostics, limit int) Data {
	data := DocumentToTableData(doc, limit)
	if len(diag.Provenance) == 0 {
		return data
	}

	data.Headers = append([]string{ProvenanceHeader}, data.Headers...)
	for i, row := range data.Rows {
		origin := "-"
		if i < len(diag.Provenance) {
			origin = originLabel(diag.Provenance[i], diag.Sources)
		}
		data.Rows[i] = append([]string{origin}, row...)
	}
	if len(data.ColumnAlignment) > 0 {
		data.ColumnAlignment = append([]Align{AlignCenter}, data.ColumnAlignment...)
	}
	return data
}

func originLabel(p reconcile.Provenance, sources []string) string {
	switch p {
	case reconcile.Matched:
		return "both"
	case reconcile.LeftOnly:
		if len(sources) > 0 {
			return sources[0]
		}
	case reconcile.RightOnly:
		if len(sources) > 1 {
			return sources[1]
		}
	}
	return p.String()
}
