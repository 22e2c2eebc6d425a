// Package presets implements the presets command.
package presets

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/alekit/internal/appcontext"
	"github.com/agentstation/alekit/internal/cmd/cmdutil"
	"github.com/agentstation/alekit/internal/cmd/output"
	"github.com/agentstation/alekit/internal/cmd/table"
	"github.com/agentstation/alekit/pkg/macro"
)

// NewCommand creates the presets command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "presets",
		GroupID: "management",
		Short:   "List and inspect saved macros",
		Long: `Presets are macros saved as .csv or .yaml files in the preset folder
(see preset_dir in the config file). Any command taking --macro accepts a
preset name in place of a path.`,
	}
	cmd.AddCommand(newListCommand(app), newShowCommand(app))
	return cmd
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the presets in the preset folder",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := app.Presets().List()
			if err != nil {
				return err
			}
			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), format, list, table.PresetsToTableData(list))
		},
	}
}

// stepView is the serialized form of a macro step.
type stepView struct {
	Line   int    `json:"line" yaml:"line"`
	Action string `json:"action" yaml:"action"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

type macroView struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       []stepView `json:"steps" yaml:"steps"`
}

func newMacroView(m *macro.Macro) macroView {
	v := macroView{Name: m.Name, Description: m.Description, Steps: []stepView{}}
	for _, s := range m.Steps {
		sv := stepView{Line: s.Line, Action: strings.Join(s.Record, ",")}
		if s.Valid() {
			sv.Action = s.Action.String()
		} else {
			sv.Error = s.Err.Error()
		}
		v.Steps = append(v.Steps, sv)
	}
	return v
}

func newShowCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "show NAME",
		Short:   "Show the steps of a preset or macro file",
		Example: `  alekit presets show "Camera Cleanup"
  alekit presets show ./cleanup.csv -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cmdutil.LoadMacro(app, args[0])
			if err != nil {
				return err
			}
			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), format, newMacroView(m), table.MacroToTableData(m))
		},
	}
}
