package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <bundle>",
		Short: "Show the change summary",
		Long: `The summary command lists added, deleted and modified nodes of the
structured diff followed by the chunk counts of the rendered diff.

Example:
  tpdiff-report summary bundle.json
  tpdiff-report summary bundle.yaml --verbose
  tpdiff-report summary bundle.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, snapshot, err := loadBundle(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return printJSON(out, summaryOf(snapshot))
			}
			for _, line := range diff.BuildDiffLines(snapshot, verbose) {
				fmt.Fprintln(out, strings.Repeat("  ", line.Indent)+line.Content)
			}
			return nil
		},
	}
}

type elementJSON struct {
	ElementID  string               `json:"element_id"`
	Operations map[diff.ChunkOp]int `json:"operations"`
	TextDelta  int                  `json:"text_delta"`
}

type summaryJSON struct {
	Available bool                    `json:"available"`
	Nodes     map[diff.NodeStatus]int `json:"nodes,omitempty"`
	Chunks    *diff.RenderedStats     `json:"chunks,omitempty"`
	Elements  []elementJSON           `json:"elements,omitempty"`
}

func summaryOf(snapshot *diff.Snapshot) summaryJSON {
	summary := summaryJSON{Available: snapshot.Available}
	if snapshot.Structured != nil {
		summary.Nodes = snapshot.Structured.Counts
	}
	if snapshot.Rendered != nil {
		stats := snapshot.Rendered.Stats
		summary.Chunks = &stats

		ids := make([]string, 0, len(snapshot.Rendered.ElementSummaries))
		for id := range snapshot.Rendered.ElementSummaries {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			element := snapshot.Rendered.ElementSummaries[id]
			summary.Elements = append(summary.Elements, elementJSON{
				ElementID:  id,
				Operations: element.Operations,
				TextDelta:  element.TextDelta(),
			})
		}
	}
	return summary
}
