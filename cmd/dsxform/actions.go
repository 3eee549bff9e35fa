package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/dsxform/internal/transform"
)

type actionsFlags struct {
	json bool
}

func newActionsCmd(root *rootFlags) *cobra.Command {
	flags := &actionsFlags{}

	cmd := &cobra.Command{
		Use:   "actions <dataset>",
		Short: "List the transform actions and whether they are enabled for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, root, appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()
			return runActions(cmd, app, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "Output in JSON format")

	return cmd
}

func runActions(cmd *cobra.Command, app *appContext, path string, flags *actionsFlags) error {
	sess, err := app.openSession(path)
	if err != nil {
		return err
	}
	page, err := app.newPage(sess)
	if err != nil {
		return err
	}

	buttons, warn := page.Buttons()
	observeButtons(app, buttons)
	if warn != nil && !flags.json {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n\n", warn)
	}

	if flags.json {
		return renderActionsJSON(cmd, app, buttons, warn)
	}
	return renderActionsTable(cmd, app, buttons)
}

func renderActionsTable(cmd *cobra.Command, app *appContext, buttons []transform.Button) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintln(writer, "#\tID\tLABEL\tKIND\tSTATUS")
	for i, b := range buttons {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\n",
			i+1,
			b.Action.ID,
			b.Action.Label,
			actionKind(b.Action),
			actionStatus(app, b),
		)
	}

	return writer.Flush()
}

type actionJSON struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Plugin      bool   `json:"plugin"`
	DesktopOnly bool   `json:"desktop_only"`
	Enabled     bool   `json:"enabled"`
	Conflict    bool   `json:"conflict,omitempty"`
	HasDialog   bool   `json:"has_dialog"`
}

type actionsJSONPayload struct {
	Version   string       `json:"version"`
	Desktop   bool         `json:"desktop"`
	Count     int          `json:"count"`
	Conflicts []string     `json:"conflicts,omitempty"`
	Actions   []actionJSON `json:"actions"`
}

func renderActionsJSON(cmd *cobra.Command, app *appContext, buttons []transform.Button, warn error) error {
	payload := actionsJSONPayload{
		Version: "1.0",
		Desktop: app.env.IsDesktop(),
		Count:   len(buttons),
		Actions: make([]actionJSON, len(buttons)),
	}
	var dup *transform.DuplicatePluginError
	if errors.As(warn, &dup) {
		payload.Conflicts = dup.Names
	}

	for i, b := range buttons {
		payload.Actions[i] = actionJSON{
			ID:          b.Action.ID,
			Label:       b.Action.Label,
			Plugin:      b.Action.IsPlugin(),
			DesktopOnly: b.Action.DesktopOnly(),
			Enabled:     b.Enabled,
			Conflict:    b.Action.Conflict,
			HasDialog:   hasDialog(app, b.Action),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func actionKind(a transform.Action) string {
	switch {
	case a.IsPlugin():
		return "plugin"
	case a.DesktopOnly():
		return "built-in (desktop)"
	default:
		return "built-in"
	}
}

func actionStatus(app *appContext, b transform.Button) string {
	switch {
	case b.Action.Conflict:
		return "disabled (name conflict)"
	case !b.Enabled:
		return "disabled"
	case !hasDialog(app, b.Action):
		return "enabled (no dialog)"
	default:
		return "enabled"
	}
}

func hasDialog(app *appContext, a transform.Action) bool {
	if a.IsPlugin() {
		return true
	}
	_, ok := app.catalog.Dialog(a.ID)
	return ok
}

// observeButtons publishes the plugin gauges for the listed buttons.
func observeButtons(app *appContext, buttons []transform.Button) {
	listed, conflicts := 0, 0
	for _, b := range buttons {
		if !b.Action.IsPlugin() {
			continue
		}
		listed++
		if b.Action.Conflict {
			conflicts++
		}
	}
	app.metrics.SetPlugins(listed, conflicts)
}
