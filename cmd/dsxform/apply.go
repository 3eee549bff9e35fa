package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/transform"
	"github.com/alexisbeaulieu97/dsxform/pkg/diff"
)

type applyFlags struct {
	dryRun  bool
	diff    bool
	timeout time.Duration
}

func newApplyCmd(root *rootFlags) *cobra.Command {
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply <action|plugin> <dataset>",
		Short: "Apply a single transform to a dataset without opening the menu",
		Long: `Apply clicks the named action exactly as the menu would, runs its dialog
and commits the result to the dataset file. Plugins are addressed by name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, root, appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()
			return runApply(cmd, app, args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Compute the transform and report the result without saving it")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "Print a unified diff of the dataset file the transform produces")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Abort the transform after this long (0 disables)")

	return cmd
}

func runApply(cmd *cobra.Command, app *appContext, id, path string, flags *applyFlags) error {
	sess, err := app.openSession(path)
	if err != nil {
		return err
	}
	page, err := app.newPage(sess)
	if err != nil {
		return err
	}

	if _, err := page.ClickID(id); err != nil {
		var unknown *transform.UnknownActionError
		switch {
		case errors.As(err, &unknown):
			return newCommandError("apply transform", id, err, "Run 'dsxform actions <dataset>' to list the available actions")
		case errors.Is(err, transform.ErrActionDisabled):
			return newCommandError("apply transform", id, err, "The action is not available for this dataset or environment (see --env)")
		default:
			return newCommandError("apply transform", id, err, "")
		}
	}

	active, props, ok := page.Active()
	if !ok {
		page.Controller().Close()
		return newCommandError("apply transform", id, fmt.Errorf("action has no dialog"), "")
	}
	d, ok := app.catalog.Lookup(active)
	if !ok {
		props.OnClose()
		return newCommandError("apply transform", id, fmt.Errorf("no dialog registered for %s", active.ActionID), "")
	}

	ctx := cmd.Context()
	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	before := props.Dataset.Len()
	sess.Begin(d.ID)
	out, err := d.Run(ctx, props.Dataset)
	if err != nil {
		sess.Fail(d.ID, err)
		props.OnClose()
		return newCommandError("apply transform", d.Title, err, "")
	}

	if flags.diff {
		if err := printDatasetDiff(cmd, sess.Path(), props.Dataset.Clone(), out); err != nil {
			props.OnClose()
			return err
		}
	}

	if flags.dryRun {
		props.OnClose()
		fmt.Fprintf(cmd.OutOrStdout(), "Dry run: %s would change %s from %d to %d samples\n", d.Title, sess.Path(), before, len(out.Samples))
		return nil
	}

	if err := props.OnChangeDataset(out); err != nil {
		props.OnClose()
		return newCommandError("save transformed dataset", sess.Path(), err, "The transform produced an invalid dataset; nothing was written")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Applied %s: %d → %d samples\n", d.Title, before, len(out.Samples))
	return nil
}

func printDatasetDiff(cmd *cobra.Command, path string, before, after *dataset.Dataset) error {
	format := dataset.FormatForPath(path)
	oldData, err := dataset.Encode(before, format)
	if err != nil {
		return fmt.Errorf("encode current dataset: %w", err)
	}
	newData, err := dataset.Encode(after, format)
	if err != nil {
		return fmt.Errorf("encode transformed dataset: %w", err)
	}

	out := diff.Unified(oldData, newData, path, path+" (transformed)")
	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
		return nil
	}
	added, removed := diff.Stat(oldData, newData)
	fmt.Fprint(cmd.OutOrStdout(), out)
	fmt.Fprintf(cmd.OutOrStdout(), "%d insertions(+), %d deletions(-)\n", added, removed)
	return nil
}
