package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/extractbench/internal/cli"
	"github.com/Veraticus/extractbench/internal/groundtruth"
)

func templatesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the document templates ground truth can be generated for",
		RunE: func(cmd *cobra.Command, _ []string) error {
			templates := groundtruth.Templates()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), templates)
			}

			var b strings.Builder
			b.WriteString(cli.FormatTitle("Document Templates"))
			b.WriteString("\n")
			for _, t := range templates {
				row := lipgloss.JoinHorizontal(lipgloss.Top,
					cli.TableCellStyle.Width(20).Render(cli.BoldStyle.Render(t.ID)),
					cli.TableCellStyle.Width(40).Render(t.Name),
					cli.SubtleStyle.Render(fmt.Sprintf("%s, %s quality, %s, %d pages",
						t.Format, t.Quality, t.Complexity, t.PageCount)),
				)
				b.WriteString(row)
				b.WriteString("\n")
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")

	return cmd
}
