package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/pstuifzand/prompt-diff/internal/export"
	"github.com/spf13/cobra"
)

var (
	markdownOutput string
	markdownRender bool
	markdownStyle  string
	markdownWidth  int
)

func newMarkdownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "markdown <bundle>",
		Short: "Write a markdown report",
		Long: `The markdown command writes the summary, the changed part of the
structured tree and a table of chunk changes as markdown.

Example:
  tpdiff-report markdown bundle.json
  tpdiff-report markdown bundle.json --output report.md
  tpdiff-report markdown bundle.json --render --style dark`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			widget, snapshot, err := loadBundle(args[0])
			if err != nil {
				return err
			}

			if markdownOutput != "" {
				if err := export.ExportToMarkdown(snapshot, widget.IR, markdownOutput); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved to: %s\n", markdownOutput)
				return nil
			}

			content := export.RenderMarkdown(snapshot, widget.IR)
			if markdownRender {
				content, err = renderMarkdown(content, markdownStyle, markdownWidth)
				if err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&markdownOutput, "output", "o", "", "Write the report to a file")
	cmd.Flags().BoolVar(&markdownRender, "render", false, "Render the report for the terminal")
	cmd.Flags().StringVar(&markdownStyle, "style", "auto", "Render style: auto, dark, light or notty")
	cmd.Flags().IntVar(&markdownWidth, "width", 80, "Word wrap width when rendering, 0 disables wrapping")
	return cmd
}

// renderMarkdown formats markdown for the terminal with glamour
func renderMarkdown(content, style string, width int) (string, error) {
	if width < 0 {
		width = 0
	}
	options := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "auto", "":
		options = append(options, glamour.WithAutoStyle())
	case "dark", "light", "notty":
		options = append(options, glamour.WithStandardStyle(style))
	default:
		return "", fmt.Errorf("unknown style %q", style)
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
