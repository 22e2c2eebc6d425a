// Package dailies implements the dailies command.
package dailies

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/batch"
	"github.com/agentstation/alekit/internal/cmd/alerts"
	"github.com/agentstation/alekit/internal/cmd/cmdutil"
	"github.com/agentstation/alekit/pkg/macro"
)

// NewCommand creates the dailies command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		macroRef string
		keys     []string
		docFlags *cmdutil.DocumentFlags
	)

	cmd := &cobra.Command{
		Use:     "dailies DIR",
		GroupID: "batch",
		Short:   "Merge the DR and SS logs of a dailies folder",
		Long: `Dailies reconciles a shoot day kept as a folder with two sub-folders:
DR holds the picture ALEs and SS the sound ALEs.

The files of each sub-folder are appended, then DR is merged with SS on
the key columns. Clips without a partner are reported. An optional macro
runs on the merged log before it is saved.`,
		Example: `  alekit dailies "Day 01" -O "Day 01.ale" --report "Day 01.md"
  alekit dailies "Day 01" -m "Avid Prep" -O "Day 01.ale"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m *macro.Macro
			if macroRef != "" {
				var err error
				if m, err = cmdutil.LoadMacro(app, macroRef); err != nil {
					return err
				}
			}

			runner := batch.New(m, batch.WithLogger(app.Logger()))
			res, err := runner.Dailies(cmd.Context(), args[0], cmdutil.Keys(app, keys)...)
			if err != nil {
				return err
			}

			w := cmdutil.Alerts(cmd, app)
			if err := w.WriteAlert(alerts.FromDiagnostics(res.Merge)); err != nil {
				return err
			}
			if res.Macro != nil {
				if err := w.WriteAlert(alerts.FromResult(res.Macro)); err != nil {
					return err
				}
			}
			return cmdutil.Finish(cmd, app, res.Document, res.Merge, docFlags)
		},
	}

	cmdutil.AddMacroFlag(cmd, &macroRef, false)
	cmdutil.AddKeysFlag(cmd, &keys)
	docFlags = cmdutil.AddDocumentFlags(cmd)

	return cmd
}
