package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ByLCY/sketchdeck/theme"
)

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "列出可用的颜色主题",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := lipgloss.NewStyle().Bold(true).Width(10)
			for _, n := range theme.Names() {
				t := theme.MustLookup(n)
				swatch := lipgloss.NewStyle().Background(lipgloss.Color(t.Fill)).Render("  ")
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s bg=%s stroke=%s fill=%s accent=%s light=%s\n",
					swatch, name.Render(n.String()), t.Background, t.Stroke, t.Fill, t.Accent, t.Light)
			}
			return nil
		},
	}
}
