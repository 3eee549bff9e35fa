package menu

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/dialogs"
)

// runTransformCmd computes the dialog's dataset off the update loop. The
// result is committed in Update so the relay runs on the UI goroutine.
func runTransformCmd(ctx context.Context, d dialogs.Dialog, snap dataset.Snapshot) tea.Cmd {
	return func() tea.Msg {
		out, err := d.Run(ctx, snap)
		if err != nil {
			return TransformDoneMsg{
				ActionID:  d.ID,
				Err:       err,
				Cancelled: ctx.Err() != nil || errors.Is(err, context.Canceled),
			}
		}
		if ctx.Err() != nil {
			return TransformDoneMsg{ActionID: d.ID, Err: ctx.Err(), Cancelled: true}
		}
		return TransformDoneMsg{ActionID: d.ID, Dataset: out}
	}
}
