package main

import (
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/sinkswitch/internal/model"
)

var sinksOpts outputFormat

// sinkRow is one line of sinks output.
type sinkRow struct {
	Handle     int        `json:"handle" yaml:"handle"`
	StableName string     `json:"stable_name" yaml:"stable_name"`
	Role       model.Role `json:"role,omitempty" yaml:"role,omitempty"`
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	roleStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("6"))
)

var sinksCmd = &cobra.Command{
	Use:   "sinks",
	Short: "List sinks by card name and handle",
	Long: `List the sinks the sound server reports, keyed by ALSA card name.

Sinks bound to the fallback or preferred role are marked.`,
	Args: cobra.NoArgs,
	RunE: runSinks,
}

func init() {
	rootCmd.AddCommand(sinksCmd)
	sinksCmd.Flags().BoolVar(&sinksOpts.json, "json", false, "Output JSON")
	sinksCmd.Flags().BoolVar(&sinksOpts.yaml, "yaml", false, "Output YAML")
	sinksCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func runSinks(cmd *cobra.Command, args []string) error {
	sinks, err := getClient().ListSinks(cmd.Context())
	if err != nil {
		return err
	}

	sinkTable := model.NewSinkTable()
	sinkTable.Replace(sinks)

	rows := make([]sinkRow, 0, sinkTable.Len())
	for _, s := range sinkTable.All() {
		row := sinkRow{Handle: s.Handle, StableName: s.StableName}
		switch s.StableName {
		case cfg.Roles.Fallback:
			row.Role = model.RoleFallback
		case cfg.Roles.Preferred:
			row.Role = model.RolePreferred
		}
		rows = append(rows, row)
	}

	out := cmd.OutOrStdout()
	if sinksOpts.structured() {
		return sinksOpts.write(out, rows)
	}

	_, err = io.WriteString(out, renderSinks(rows)+"\n")
	return err
}

// renderSinks lays rows out as a borderless table with the role column highlighted.
func renderSinks(rows []sinkRow) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers("HANDLE", "NAME", "ROLE").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return roleStyle
			default:
				return cellStyle
			}
		})
	for _, r := range rows {
		t.Row(strconv.Itoa(r.Handle), r.StableName, string(r.Role))
	}
	return t.String()
}
