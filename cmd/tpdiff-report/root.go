package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pstuifzand/prompt-diff/internal/diff"
	"github.com/pstuifzand/prompt-diff/internal/storage"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	jsonOut bool
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tpdiff-report",
		Short: "Report on prompt diff bundles",
		Long: `tpdiff-report reads a widget data bundle (JSON or YAML) holding two prompt
versions and their precomputed diffs, and prints a summary, a markdown report
or the list of chunk changes.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Include anchor details")
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	cmd.AddCommand(newSummaryCmd(), newMarkdownCmd(), newChangesCmd())
	return cmd
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadBundle reads a bundle and aggregates its diffs
func loadBundle(path string) (*storage.WidgetData, *diff.Snapshot, error) {
	store := storage.NewBundleStore(path)
	if !store.FileExists() {
		return nil, nil, fmt.Errorf("failed to open bundle: %s does not exist", path)
	}

	widget, err := store.Load()
	if err != nil {
		return nil, nil, err
	}

	return widget, diff.NewState(widget.DiffInputs()).Snapshot(), nil
}

// printJSON outputs data as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
