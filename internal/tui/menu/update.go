package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/dsxform/internal/transform"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		ApplyMaxWidth(m.width)

		const minWidth = 60
		const minHeight = 16
		if m.width < minWidth || m.height < minHeight {
			m.showError = true
			m.errorMsg = fmt.Sprintf("Terminal too small (%dx%d). Minimum size: %dx%d",
				m.width, m.height, minWidth, minHeight)
		} else if m.showError && strings.HasPrefix(m.errorMsg, "Terminal too small") {
			m.showError = false
			m.errorMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TransformDoneMsg:
		return m.handleTransformDone(msg)

	case RefreshMsg:
		m.refreshButtons()
		return m, nil

	case ErrorMsg:
		m.showError = true
		m.errorMsg = msg.Message
		return m, nil

	case ClearErrorMsg:
		m.showError = false
		m.errorMsg = ""
		return m, nil
	}

	return m, nil
}

// handleKeyPress routes keys to the open dialog first, then to the current view.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.runCancel != nil {
			m.runCancel()
		}
		return m, tea.Quit
	}

	if _, _, open := m.page.Active(); open {
		return m.handleDialogKeys(msg)
	}

	switch m.viewMode {
	case ViewHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

// handleListKeys handles keys in list view
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x":
		m.showError = false
		m.errorMsg = ""
		m.notice = ""
		return m, nil

	case "q":
		return m, tea.Quit

	case "up", "k":
		m.MoveCursorUp()
		return m, nil

	case "down", "j":
		m.MoveCursorDown()
		return m, nil

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.SetCursor(int(msg.String()[0] - '1'))
		return m, nil

	case "enter", " ":
		return m.clickSelected()

	case "r":
		m.showError = false
		m.errorMsg = ""
		m.refreshButtons()
		return m, nil

	case "?":
		m.viewMode = ViewHelp
		return m, nil
	}

	return m, nil
}

// handleHelpKeys handles keys in help view
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?", "esc", "enter":
		m.viewMode = ViewList
	}
	return m, nil
}

// handleDialogKeys handles keys while a dialog is open.
func (m Model) handleDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.running {
		if msg.String() == "esc" && m.runCancel != nil {
			m.runCancel()
			m.cancelled = true
		}
		return m, nil
	}

	switch msg.String() {
	case "enter", "y":
		d, props, ok := m.activeDialog()
		if !ok {
			return m, nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		m.running = true
		m.runCancel = cancel
		m.cancelled = false
		m.dialogErr = ""
		if m.recorder != nil {
			m.recorder.Begin(d.ID)
		}
		return m, tea.Batch(m.spinner.Tick, runTransformCmd(ctx, d, props.Dataset))

	case "esc", "n", "q":
		_, props, ok := m.page.Active()
		if ok {
			props.OnClose()
		}
		m.dialogErr = ""
		return m, nil
	}
	return m, nil
}

// clickSelected clicks the highlighted button.
func (m Model) clickSelected() (tea.Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.buttons) {
		return m, nil
	}
	b := m.buttons[m.cursor]
	m.notice = ""

	state, err := m.page.Click(b)
	if errors.Is(err, transform.ErrActionDisabled) {
		m.notice = fmt.Sprintf("%s is not available for this dataset", b.Action.Label)
		return m, nil
	}
	if err != nil {
		m.showError = true
		m.errorMsg = err.Error()
		return m, nil
	}

	if _, _, ok := m.activeDialog(); !ok {
		if !state.IsNone() {
			m.page.Controller().Close()
		}
		m.notice = fmt.Sprintf("%s has no dialog yet", b.Action.Label)
	}
	m.dialogErr = ""
	return m, nil
}

// handleTransformDone commits a computed dataset through the open dialog's props.
func (m Model) handleTransformDone(msg TransformDoneMsg) (tea.Model, tea.Cmd) {
	m.running = false
	if m.runCancel != nil {
		m.runCancel()
		m.runCancel = nil
	}
	if m.cancelled && msg.Err == nil {
		msg.Err = context.Canceled
		msg.Cancelled = true
	}
	m.cancelled = false

	if msg.Err != nil {
		if m.recorder != nil {
			m.recorder.Fail(msg.ActionID, msg.Err)
		}
		if msg.Cancelled {
			m.dialogErr = "Cancelled"
		} else {
			m.dialogErr = msg.Err.Error()
		}
		return m, nil
	}

	_, props, ok := m.page.Active()
	if !ok {
		m.log.With("action", msg.ActionID).Warn("dialog closed before its transform finished; result dropped")
		return m, nil
	}

	before := props.Dataset.Len()
	if err := props.OnChangeDataset(msg.Dataset); err != nil {
		m.dialogErr = err.Error()
		return m, nil
	}

	m.dialogErr = ""
	m.notice = fmt.Sprintf("Applied %s: %d → %d samples", msg.ActionID, before, len(msg.Dataset.Samples))
	m.refreshButtons()
	return m, nil
}
