// Package show implements the show command.
package show

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/cmd/cmdutil"
	"github.com/agentstation/alekit/internal/cmd/output"
	"github.com/agentstation/alekit/pkg/ale"
)

// NewCommand creates the show command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		limit       int
		sortColumns bool
		sortRows    []string
	)

	cmd := &cobra.Command{
		Use:     "show FILE",
		GroupID: "core",
		Short:   "Print an ALE file's heading and rows",
		Long: `Show prints the heading and a preview of the rows of an ALE file.

With -o json or -o yaml the whole document is printed as structured data;
with -o tsv the table is printed as plain tab-separated text.`,
		Example: `  alekit show A001.ale
  alekit show A001.ale --limit 0 --sort-rows Tape,Start
  alekit show A001.ale -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ale.Load(args[0])
			if err != nil {
				return err
			}
			if sortColumns {
				doc.SortColumns()
			}
			if len(sortRows) > 0 {
				if err := doc.SortRows(sortRows...); err != nil {
					return err
				}
			}

			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}
			return output.Document(cmd.OutOrStdout(), format, doc, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Rows to show (0 for all)")
	cmd.Flags().BoolVar(&sortColumns, "sort-columns", false, "Order columns alphabetically")
	cmd.Flags().StringSliceVar(&sortRows, "sort-rows", nil, "Sort rows by these columns")

	return cmd
}
