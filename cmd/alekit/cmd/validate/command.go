// Package validate implements the validate command.
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/cmd/alerts"
	"github.com/agentstation/alekit/internal/cmd/cmdutil"
	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/errors"
)

// NewCommand creates the validate command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "validate FILE...",
		GroupID: "management",
		Short:   "Check ALE files for structural problems",
		Long: `Validate loads every file and reports problems that do not stop a file
from loading but may upset an editing system, such as columns that differ
only by case or heading keys containing spaces.`,
		Example: `  alekit validate *.ale`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmdutil.Alerts(cmd, app)
			var bad int
			for _, path := range args {
				doc, err := ale.Load(path)
				if err != nil {
					bad++
					if werr := w.WriteAlert(alerts.NewError(path).WithError(err)); werr != nil {
						return werr
					}
					continue
				}
				problems := doc.Validate()
				if len(problems) > 0 {
					bad++
				}
				if err := w.WriteAlert(alerts.FromValidation(path, problems)); err != nil {
					return err
				}
			}
			if bad > 0 {
				return errors.NewValidationError("files", bad, fmt.Sprintf("%d of %d files have problems", bad, len(args)))
			}
			return nil
		},
	}
}
