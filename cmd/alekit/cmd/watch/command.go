// Package watch implements the watch command.
package watch

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/batch"
	"github.com/agentstation/alekit/internal/cmd/alerts"
	"github.com/agentstation/alekit/internal/cmd/cmdutil"
	"github.com/agentstation/alekit/internal/watch"
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/logging"
)

// NewCommand creates the watch command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		macroRef string
		outDir   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:     "watch DIR --macro MACRO",
		GroupID: "batch",
		Short:   "Apply a macro to ALE files as they are dropped into a folder",
		Long: `Watch waits for ALE files to be written into DIR and applies the macro
to each one, saving the result as in the batch command. The macro is
reloaded for every file, so edits to a preset take effect immediately.
Press Ctrl+C to stop.`,
		Example: `  alekit watch incoming/ -m "Camera Cleanup" --out-dir processed/`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// fail fast on a bad macro before watching
			if _, err := cmdutil.LoadMacro(app, macroRef); err != nil {
				return err
			}
			w := cmdutil.Alerts(cmd, app)

			handler := func(ctx context.Context, path string) error {
				m, err := cmdutil.LoadMacro(app, macroRef)
				if err != nil {
					return err
				}
				ctx = logging.WithMacro(ctx, m.Name)
				runner := batch.New(m,
					batch.WithWorkers(1),
					batch.WithSuffix(app.BatchSuffix()),
					batch.WithOutputDir(outDir),
					batch.WithLogger(logging.FromContext(ctx)),
				)
				report, err := runner.Run(ctx, []string{path})
				if err != nil {
					return err
				}
				return w.WriteAlert(alerts.FromBatch(report))
			}

			suffixed := batch.New(nil, batch.WithSuffix(app.BatchSuffix()))
			watcher := watch.New(args[0], handler,
				watch.WithDebounce(debounce),
				watch.WithLogger(app.Logger()),
				watch.WithFilter(func(p string) bool {
					return ale.IsALEFile(p) && !suffixed.IsOutput(p)
				}),
			)
			return watcher.Run(cmd.Context())
		},
	}

	cmdutil.AddMacroFlag(cmd, &macroRef, true)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write results here instead of next to each source")
	cmd.Flags().DurationVar(&debounce, "debounce", constants.WatchDebounce, "How long a file must be unchanged before it is processed")

	return cmd
}
