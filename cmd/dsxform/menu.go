package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/dsxform/internal/tui/menu"
)

func newMenuCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu <dataset>",
		Short: "Open the interactive transform menu for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, flags, appOptions{interactive: true})
			if err != nil {
				return err
			}
			defer app.Close()
			return runMenu(cmd.Context(), app, args[0])
		},
	}

	return cmd
}

func runMenu(ctx context.Context, app *appContext, path string) error {
	sess, err := app.openSession(path)
	if err != nil {
		return err
	}
	page, err := app.newPage(sess)
	if err != nil {
		return fmt.Errorf("failed to build transform menu: %w", err)
	}
	buttons, _ := page.Buttons()
	observeButtons(app, buttons)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.serveMetrics(ctx)

	m := menu.NewModel(menu.Options{
		Page:     page,
		Catalog:  app.catalog,
		Recorder: sess,
		Desktop:  app.env.IsDesktop(),
		Unicode:  supportsUnicode(os.Stdout),
		Logger:   app.log.With("component", "tui"),
	})

	app.log.With("dataset", sess.Path()).Info("launching transform menu")
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("transform menu failed: %w", err)
	}
	return nil
}
