// Package menu is the interactive transform menu.
package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/dsxform/internal/dialogs"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
	"github.com/alexisbeaulieu97/dsxform/internal/transform"
)

// RunRecorder is told when a dialog starts computing and when it fails.
type RunRecorder interface {
	Begin(action string)
	Fail(action string, err error)
}

// Options wires a Model.
type Options struct {
	Page     *transform.Page
	Catalog  *dialogs.Catalog
	Recorder RunRecorder
	Desktop  bool
	Unicode  bool
	Logger   *logger.Logger
}

// Model is the bubbletea model of the transform menu.
type Model struct {
	page     *transform.Page
	catalog  *dialogs.Catalog
	recorder RunRecorder
	log      *logger.Logger

	buttons  []transform.Button
	cursor   int
	viewMode ViewMode

	spinner   spinner.Model
	coverage  coverage
	running   bool
	runCancel context.CancelFunc
	cancelled bool
	dialogErr string

	showError bool
	errorMsg  string
	notice    string

	width      int
	height     int
	desktop    bool
	useUnicode bool
}

// NewModel creates the menu and evaluates its buttons once.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		page:       opts.Page,
		catalog:    opts.Catalog,
		recorder:   opts.Recorder,
		log:        opts.Logger,
		viewMode:   ViewList,
		spinner:    s,
		coverage:   newCoverage(),
		width:      80,
		height:     24,
		desktop:    opts.Desktop,
		useUnicode: opts.Unicode,
	}
	m.refreshButtons()
	return m
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// refreshButtons re-evaluates the registry and the gate. Registry warnings
// become the error banner.
func (m *Model) refreshButtons() {
	buttons, err := m.page.Buttons()
	m.buttons = buttons
	if m.cursor >= len(m.buttons) {
		m.cursor = 0
	}

	var dup *transform.DuplicatePluginError
	switch {
	case errors.As(err, &dup):
		m.showError = true
		m.errorMsg = dup.Error()
	case err != nil:
		m.showError = true
		m.errorMsg = fmt.Sprintf("Failed to list actions: %s", err)
	}
}

// Buttons returns the evaluated buttons in menu order.
func (m Model) Buttons() []transform.Button {
	return m.buttons
}

// Cursor returns the highlighted button index.
func (m Model) Cursor() int {
	return m.cursor
}

// Running reports whether a dialog transform is in flight.
func (m Model) Running() bool {
	return m.running
}

// DialogError returns the error shown inside the open dialog.
func (m Model) DialogError() string {
	return m.dialogErr
}

// Notice returns the last success message.
func (m Model) Notice() string {
	return m.notice
}

// activeDialog resolves the dialog the page currently shows.
func (m Model) activeDialog() (dialogs.Dialog, transform.DialogProps, bool) {
	active, props, ok := m.page.Active()
	if !ok {
		return dialogs.Dialog{}, transform.DialogProps{}, false
	}
	d, found := m.catalog.Lookup(active)
	if !found {
		return dialogs.Dialog{}, transform.DialogProps{}, false
	}
	return d, props, true
}

// MoveCursorUp moves cursor up with wrapping
func (m *Model) MoveCursorUp() {
	if len(m.buttons) == 0 {
		return
	}
	m.cursor--
	if m.cursor < 0 {
		m.cursor = len(m.buttons) - 1
	}
}

// MoveCursorDown moves cursor down with wrapping
func (m *Model) MoveCursorDown() {
	if len(m.buttons) == 0 {
		return
	}
	m.cursor++
	if m.cursor >= len(m.buttons) {
		m.cursor = 0
	}
}

// SetCursor sets cursor to specific index
func (m *Model) SetCursor(index int) {
	if index >= 0 && index < len(m.buttons) {
		m.cursor = index
	}
}
