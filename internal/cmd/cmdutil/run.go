package cmdutil

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/cmd/alerts"
	"github.com/agentstation/alekit/internal/cmd/output"
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/macro"
	"github.com/agentstation/alekit/pkg/reconcile"
)

// LoadMacro resolves ref through the app's preset store.
func LoadMacro(app appcontext.Interface, ref string) (*macro.Macro, error) {
	m, err := app.Presets().Load(ref)
	if err != nil {
		return nil, err
	}
	app.Logger().Debug().Str("macro", m.Name).Int("steps", len(m.Steps)).Msg("Loaded macro")
	return m, nil
}

// Alerts returns a writer for status alerts on the command's stderr.
func Alerts(cmd *cobra.Command, app appcontext.Interface) alerts.Writer {
	format, err := Format(app)
	if err != nil || !format.IsTabular() {
		format = output.FormatTable
	}
	return alerts.NewFormatWriter(cmd.ErrOrStderr(), format).WithColor(!app.NoColor() && isStderr(cmd))
}

// WriteReport writes diag as a Markdown report to path.
func WriteReport(path string, diag *reconcile.Diagnostics) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := diag.WriteMarkdown(f); err != nil {
		f.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}

// Finish saves doc to flags.Out when set, or previews it on stdout, then
// writes the optional report.
func Finish(cmd *cobra.Command, app appcontext.Interface, doc *ale.Document, diag *reconcile.Diagnostics, flags *DocumentFlags) error {
	if flags.Report != "" && diag != nil {
		if err := WriteReport(flags.Report, diag); err != nil {
			return err
		}
		app.Logger().Info().Str("report", flags.Report).Msg("Wrote reconciliation report")
	}

	if flags.Out != "" {
		if err := doc.Save(flags.Out); err != nil {
			return err
		}
		return Alerts(cmd, app).WriteAlert(alerts.NewSuccess("saved " + flags.Out))
	}

	format, err := Format(app)
	if err != nil {
		return err
	}
	return output.Document(cmd.OutOrStdout(), format, doc, flags.Limit)
}

func isStderr(cmd *cobra.Command) bool {
	f, ok := cmd.ErrOrStderr().(*os.File)
	return ok && f == os.Stderr
}
