package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/dsxform/internal/journal"
)

func newRunsCmd(root *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "runs <dataset>",
		Short: "Show the transforms recorded for a dataset, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, root, appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			if app.journal == nil {
				return newCommandError("show runs", args[0], fmt.Errorf("journal is disabled"), "Set journal.disabled: false in the config file")
			}
			entries := app.journal.Entries(journal.DatasetID(args[0]))
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			}
			return renderRuns(cmd, entries)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

func renderRuns(cmd *cobra.Command, entries []journal.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No transforms recorded for this dataset yet.")
		return nil
	}

	useUnicode := supportsUnicode(cmd.OutOrStdout())
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "WHEN\tACTION\tSTATUS\tSAMPLES\tDETAIL")
	for _, e := range entries {
		samples := fmt.Sprintf("%d", e.SamplesBefore)
		if e.Status == journal.StatusApplied {
			samples = fmt.Sprintf("%d → %d", e.SamplesBefore, e.SamplesAfter)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			formatRelativeTime(e.CompletedAt),
			e.Action,
			formatStatus(e.Status, useUnicode),
			samples,
			runDetail(e),
		)
	}
	return writer.Flush()
}

func runDetail(e journal.Entry) string {
	if e.Error != nil {
		return fmt.Sprintf("%s: %s", e.Error.Code, e.Error.Message)
	}
	if e.Revision != "" {
		return "commit " + shortHash(e.Revision)
	}
	return "-"
}

func formatStatus(status journal.Status, useUnicode bool) string {
	if useUnicode {
		return fmt.Sprintf("%s %s", status.Icon(), status.String())
	}
	return fmt.Sprintf("%s %s", status.IconFallback(), status.String())
}

func formatRelativeTime(ts time.Time) string {
	if ts.IsZero() {
		return "never"
	}

	delta := time.Since(ts)
	if delta < time.Minute {
		return "just now"
	}
	if delta < time.Hour {
		return fmt.Sprintf("%d minutes ago", int(delta.Minutes()))
	}
	if delta < 24*time.Hour {
		return fmt.Sprintf("%d hours ago", int(delta.Hours()))
	}

	return fmt.Sprintf("%d days ago", int(delta.Hours()/24))
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
