// Package batch implements the batch command.
package batch

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/batch"
	"github.com/agentstation/alekit/internal/cmd/alerts"
	"github.com/agentstation/alekit/internal/cmd/cmdutil"
	"github.com/agentstation/alekit/internal/cmd/output"
	"github.com/agentstation/alekit/internal/cmd/table"
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/errors"
)

// NewCommand creates the batch command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		macroRef string
		dir      string
		outDir   string
		suffix   string
		workers  int
	)

	cmd := &cobra.Command{
		Use:     "batch --macro MACRO FILE... [--dir DIR]",
		GroupID: "batch",
		Short:   "Apply a macro to many ALE files",
		Long: `Batch applies a macro to every file given and saves each result next to
its source as "<name> - batch processed.ale". Files are processed in
parallel; a file that fails does not stop the others.`,
		Example: `  alekit batch -m "Camera Cleanup" A001.ale A002.ale
  alekit batch -m cleanup --dir day01/ --workers 8 --out-dir processed/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cmdutil.LoadMacro(app, macroRef)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("suffix") {
				suffix = app.BatchSuffix()
			}
			if workers == 0 {
				workers = app.Workers()
			}
			var done, total int
			runner := batch.New(m,
				batch.WithWorkers(workers),
				batch.WithSuffix(suffix),
				batch.WithOutputDir(outDir),
				batch.WithLogger(app.Logger()),
				batch.WithFileHook(func(f batch.FileResult) {
					done++
					app.Logger().Info().
						Str("file", filepath.Base(f.Source)).
						Bool("ok", f.OK()).
						Msgf("Processed %d of %d", done, total)
				}),
			)

			paths := args
			if dir != "" {
				found, err := ale.ListDir(dir)
				if err != nil {
					return err
				}
				for _, p := range found {
					if !runner.IsOutput(p) {
						paths = append(paths, p)
					}
				}
			}
			if len(paths) == 0 {
				return errors.NewValidationError("files", nil, "no ALE files to process")
			}
			total = len(paths)

			report, runErr := runner.Run(cmd.Context(), paths)
			if report == nil {
				return runErr
			}
			if err := cmdutil.Alerts(cmd, app).WriteAlert(alerts.FromBatch(report)); err != nil {
				return err
			}
			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}
			if err := output.Write(cmd.OutOrStdout(), format, report, table.BatchToTableData(report)); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}
			if !report.OK() {
				return errors.New("some files could not be processed")
			}
			return nil
		},
	}

	cmdutil.AddMacroFlag(cmd, &macroRef, true)
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Also process every ALE file in this folder")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write results here instead of next to each source")
	cmd.Flags().StringVar(&suffix, "suffix", "", "Text inserted before the extension of output files")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Files processed in parallel (default from config)")

	return cmd
}
