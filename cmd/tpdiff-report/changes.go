package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pstuifzand/prompt-diff/internal/navigate"
	"github.com/spf13/cobra"
)

var changesQuery string

func newChangesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changes <bundle>",
		Short: "List chunk changes in document order",
		Long: `The changes command lists every inserted, replaced and deleted chunk in
the order the viewer steps through them. Deleted chunks are listed in front
of the chunk they are shown before.

Example:
  tpdiff-report changes bundle.json
  tpdiff-report changes bundle.json --query "intro"
  tpdiff-report changes bundle.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			widget, snapshot, err := loadBundle(args[0])
			if err != nil {
				return err
			}

			changes := navigate.BuildChanges(snapshot.Rendered, widget.IR)
			if changesQuery != "" {
				changes = navigate.Search(changes, changesQuery)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return printJSON(out, changesJSON(changes))
			}
			if len(changes) == 0 {
				fmt.Fprintln(out, "No changes")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tOP\tELEMENT\tCHUNK\tCHANGE")
			for i, change := range changes {
				chunk := change.ChunkID
				if change.Ghost {
					chunk += " (ghost)"
					if verbose && change.AnchorID != "" {
						chunk += " before " + change.AnchorID
					}
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, change.Op, change.ElementID, chunk, change.Label())
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&changesQuery, "query", "", "Only list changes matching the query, best match first")
	return cmd
}

type changeJSON struct {
	Op        string `json:"op"`
	ChunkID   string `json:"chunk_id"`
	ElementID string `json:"element_id,omitempty"`
	Before    string `json:"before,omitempty"`
	After     string `json:"after,omitempty"`
	Ghost     bool   `json:"ghost,omitempty"`
	AnchorID  string `json:"anchor_id,omitempty"`
}

func changesJSON(changes []navigate.Change) []changeJSON {
	out := make([]changeJSON, 0, len(changes))
	for _, change := range changes {
		out = append(out, changeJSON{
			Op:        string(change.Op),
			ChunkID:   change.ChunkID,
			ElementID: change.ElementID,
			Before:    change.Before,
			After:     change.After,
			Ghost:     change.Ghost,
			AnchorID:  change.AnchorID,
		})
	}
	return out
}
