package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

func newHistoryCmd(root *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <dataset>",
		Short: "Show the git revisions of a dataset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := dataset.OpenHistory(args[0], dataset.HistoryOptions{})
			if err != nil {
				return newCommandError("open dataset history", args[0], err,
					"Enable history.enabled in the config file so transforms are committed")
			}
			revisions, err := h.Log(args[0], limit)
			if err != nil {
				return newCommandError("read dataset history", args[0], err, "")
			}
			if len(revisions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No revisions recorded for this dataset.")
				return nil
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "COMMIT\tWHEN\tMESSAGE")
			for _, r := range revisions {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", shortHash(r.Hash), formatRelativeTime(r.When), strings.TrimSpace(r.Message))
			}
			return writer.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of revisions to show (0 shows all)")

	return cmd
}
