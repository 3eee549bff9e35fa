package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
	"github.com/alexisbeaulieu97/dsxform/internal/plugins"
)

func newPluginsCmd(root *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List the registered transform plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, root, appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()
			return runPluginsList(cmd, app, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.AddCommand(newPluginsValidateCmd())

	return cmd
}

func newPluginsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest>...",
		Short: "Validate plugin manifest files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				m, err := config.ParsePluginManifest(path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n  %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%s)\n", path, m.Name)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d manifests are invalid", failed, len(args))
			}
			return nil
		},
	}
}

type pluginJSON struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Command     []string `json:"command"`
	Timeout     string   `json:"timeout"`
	Conflict    bool     `json:"conflict,omitempty"`
}

func runPluginsList(cmd *cobra.Command, app *appContext, asJSON bool) error {
	refs := app.source.Plugins()

	counts := make(map[string]int, len(refs))
	for _, ref := range refs {
		counts[ref.Name]++
	}

	rows := make([]pluginJSON, 0, len(refs))
	for _, ref := range refs {
		row := pluginJSON{Name: ref.Name, Description: ref.Description, Conflict: counts[ref.Name] > 1}
		if m, ok := plugins.ManifestFromRef(ref); ok {
			row.Command = m.Command
			row.Timeout = plugins.DefaultTimeout.String()
			if m.Timeout > 0 {
				row.Timeout = m.Timeout.String()
			}
		}
		rows = append(rows, row)
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No plugins registered.")
		fmt.Fprintln(cmd.OutOrStdout(), "\nAdd manifests under plugins.entries or drop YAML files into plugins.dir.")
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tCOMMAND\tTIMEOUT\tDESCRIPTION")
	for _, row := range rows {
		name := row.Name
		if row.Conflict {
			name += " [name conflict]"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", name, strings.Join(row.Command, " "), row.Timeout, valueOrFallback(row.Description, "-"))
	}
	return writer.Flush()
}
