package menu

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/dialogs"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
	"github.com/alexisbeaulieu97/dsxform/internal/plugins"
	"github.com/alexisbeaulieu97/dsxform/internal/transform"
)

type fakeOwner struct {
	ds      *dataset.Dataset
	changes int
	err     error
}

func (o *fakeOwner) Dataset() dataset.Snapshot { return dataset.NewSnapshot(o.ds) }

func (o *fakeOwner) ChangeDataset(ds *dataset.Dataset) error {
	if o.err != nil {
		return o.err
	}
	o.changes++
	o.ds = ds
	return nil
}

type fakeRecorder struct {
	begun  []string
	failed []string
}

func (r *fakeRecorder) Begin(action string)         { r.begun = append(r.begun, action) }
func (r *fakeRecorder) Fail(action string, _ error) { r.failed = append(r.failed, action) }

type harness struct {
	model    Model
	owner    *fakeOwner
	recorder *fakeRecorder
	registry *plugins.Registry
}

func newHarness(t *testing.T, desktop bool, manifests ...config.PluginManifest) harness {
	t.Helper()
	owner := &fakeOwner{ds: &dataset.Dataset{
		Name:      "birds",
		Interface: dataset.Interface{Type: dataset.InterfaceImageClassification},
		Samples: []dataset.Sample{
			{ID: "a", ImageURL: "https://x/a.png"},
			{ID: "b"},
		},
	}}
	reg := plugins.NewRegistry(logger.Discard(), manifests...)
	catalog := dialogs.NewCatalog(dialogs.Options{Transforms: config.Default().Transforms})

	registry, err := transform.NewRegistry(nil)
	require.NoError(t, err)
	page, err := transform.NewPage(transform.PageOptions{
		Registry:  registry,
		Source:    reg,
		Env:       transform.StaticEnvironment{Desktop: desktop},
		Owner:     owner,
		DialogIDs: catalog.IDs(),
		Logger:    logger.Discard(),
	})
	require.NoError(t, err)

	rec := &fakeRecorder{}
	m := NewModel(Options{Page: page, Catalog: catalog, Recorder: rec, Desktop: desktop, Logger: logger.Discard()})
	return harness{model: m, owner: owner, recorder: rec, registry: reg}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func indexOf(t *testing.T, m Model, id string) int {
	t.Helper()
	for i, b := range m.Buttons() {
		if b.Action.ID == id {
			return i
		}
	}
	t.Fatalf("no button %q", id)
	return -1
}

func TestNewModel_ButtonsFollowGate(t *testing.T) {
	h := newHarness(t, false)
	buttons := h.model.Buttons()
	require.Len(t, buttons, len(transform.BuiltinIDs()))

	for _, b := range buttons {
		switch {
		case b.Action.ID == transform.ActionConvertKeyframesToSamples:
			assert.False(t, b.Enabled, "keyframes needs a video dataset")
		case b.Action.DesktopOnly():
			assert.False(t, b.Enabled, "%s is desktop only", b.Action.ID)
		default:
			assert.True(t, b.Enabled, b.Action.ID)
		}
	}

	desktop := newHarness(t, true)
	assert.True(t, desktop.model.Buttons()[indexOf(t, desktop.model, transform.ActionDownloadURLs)].Enabled)
}

func TestNewModel_DuplicatePluginsShowBanner(t *testing.T) {
	m := config.PluginManifest{Name: "relabel", Command: []string{"cat"}}
	h := newHarness(t, false, m, m)

	assert.True(t, h.model.showError)
	assert.Contains(t, h.model.errorMsg, `"relabel"`)

	var conflicts int
	for _, b := range h.model.Buttons() {
		if b.Action.Conflict {
			conflicts++
			assert.False(t, b.Enabled)
		}
	}
	assert.Equal(t, 2, conflicts)
}

func TestUpdate_Navigation(t *testing.T) {
	h := newHarness(t, false)
	m := h.model
	n := len(m.Buttons())

	m, _ = send(t, m, key("up"))
	assert.Equal(t, n-1, m.Cursor(), "wraps to the end")
	m, _ = send(t, m, key("down"))
	assert.Equal(t, 0, m.Cursor())
	m, _ = send(t, m, key("j"))
	assert.Equal(t, 1, m.Cursor())
	m, _ = send(t, m, key("3"))
	assert.Equal(t, 2, m.Cursor())
	m, _ = send(t, m, key("9"))
	assert.Equal(t, 2, m.Cursor(), "out of range index is ignored")
}

func TestUpdate_ClickDisabledShowsNotice(t *testing.T) {
	h := newHarness(t, false)
	m := h.model
	m.SetCursor(indexOf(t, m, transform.ActionDownloadURLs))

	m, _ = send(t, m, key("enter"))
	assert.Contains(t, m.Notice(), "not available")
	_, _, open := m.page.Active()
	assert.False(t, open)
}

func TestUpdate_DialogApplyCommitsThroughRelay(t *testing.T) {
	h := newHarness(t, false)
	m := h.model
	m.SetCursor(indexOf(t, m, transform.ActionRemoveInvalidSamples))

	m, _ = send(t, m, key("enter"))
	active, _, open := m.page.Active()
	require.True(t, open)
	assert.Equal(t, transform.ActionRemoveInvalidSamples, active.ActionID)

	m, cmd := send(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.Running())
	assert.Equal(t, []string{transform.ActionRemoveInvalidSamples}, h.recorder.begun)

	d, props, ok := m.activeDialog()
	require.True(t, ok)
	msg := runTransformCmd(context.Background(), d, props.Dataset)()
	done, ok := msg.(TransformDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	m, _ = send(t, m, done)
	assert.False(t, m.Running())
	assert.Equal(t, 1, h.owner.changes)
	assert.Len(t, h.owner.ds.Samples, 1)
	_, _, open = m.page.Active()
	assert.False(t, open, "successful change closes the dialog")
	assert.Contains(t, m.Notice(), "2 → 1 samples")
}

func TestUpdate_MutationFailureKeepsDialogOpen(t *testing.T) {
	h := newHarness(t, false)
	h.owner.err = errors.New("disk full")
	m := h.model
	m.SetCursor(indexOf(t, m, transform.ActionRemoveInvalidSamples))
	m, _ = send(t, m, key("enter"))

	m, _ = send(t, m, TransformDoneMsg{ActionID: transform.ActionRemoveInvalidSamples, Dataset: &dataset.Dataset{}})
	_, _, open := m.page.Active()
	assert.True(t, open)
	assert.Contains(t, m.DialogError(), "disk full")
	assert.Equal(t, 2, m.page.Dataset().Len())
}

func TestUpdate_TransformFailureIsRecorded(t *testing.T) {
	h := newHarness(t, false)
	m := h.model
	m.SetCursor(indexOf(t, m, transform.ActionSplitImagesIntoSegments))
	m, _ = send(t, m, key("enter"))

	m, _ = send(t, m, TransformDoneMsg{ActionID: transform.ActionSplitImagesIntoSegments, Err: errors.New("boom")})
	assert.Equal(t, []string{transform.ActionSplitImagesIntoSegments}, h.recorder.failed)
	assert.Equal(t, "boom", m.DialogError())
	_, _, open := m.page.Active()
	assert.True(t, open)

	m, _ = send(t, m, TransformDoneMsg{ActionID: transform.ActionSplitImagesIntoSegments, Err: context.Canceled, Cancelled: true})
	assert.Equal(t, "Cancelled", m.DialogError())
}

func TestUpdate_EscClosesDialog(t *testing.T) {
	h := newHarness(t, false)
	m := h.model
	m.SetCursor(indexOf(t, m, transform.ActionCombineSegmentsIntoImages))
	m, _ = send(t, m, key("enter"))
	_, _, open := m.page.Active()
	require.True(t, open)

	m, _ = send(t, m, key("esc"))
	_, _, open = m.page.Active()
	assert.False(t, open)
	assert.Equal(t, 0, h.owner.changes)
}

func TestUpdate_RunningIgnoresKeysButEscCancels(t *testing.T) {
	h := newHarness(t, false)
	m := h.model
	m.SetCursor(indexOf(t, m, transform.ActionRemoveInvalidSamples))
	m, _ = send(t, m, key("enter"))
	m, _ = send(t, m, key("enter"))
	require.True(t, m.Running())

	cancelled := false
	m.runCancel = func() { cancelled = true }

	m, _ = send(t, m, key("n"))
	_, _, open := m.page.Active()
	assert.True(t, open, "dialog cannot be closed while running")

	_, _ = send(t, m, key("esc"))
	assert.True(t, cancelled)
}

func TestUpdate_EscCancelDropsFinishedResult(t *testing.T) {
	h := newHarness(t, false)
	m := h.model
	m.SetCursor(indexOf(t, m, transform.ActionRemoveInvalidSamples))
	m, _ = send(t, m, key("enter"))
	m, _ = send(t, m, key("enter"))
	require.True(t, m.Running())

	m, _ = send(t, m, key("esc"))
	m, _ = send(t, m, TransformDoneMsg{
		ActionID: transform.ActionRemoveInvalidSamples,
		Dataset:  &dataset.Dataset{Name: "birds"},
	})

	assert.Equal(t, 0, h.owner.changes)
	assert.Equal(t, "Cancelled", m.DialogError())
	assert.Equal(t, []string{transform.ActionRemoveInvalidSamples}, h.recorder.failed)
	_, _, open := m.page.Active()
	assert.True(t, open)
}

func TestRunTransformCmd_CancelledContextDiscardsResult(t *testing.T) {
	d := dialogs.Dialog{ID: "x", Transformer: dialogs.TransformerFunc(func(context.Context, dataset.Snapshot) (*dataset.Dataset, error) {
		return &dataset.Dataset{}, nil
	})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg, ok := runTransformCmd(ctx, d, dataset.NewSnapshot(&dataset.Dataset{}))().(TransformDoneMsg)
	require.True(t, ok)
	assert.True(t, msg.Cancelled)
	assert.ErrorIs(t, msg.Err, context.Canceled)
	assert.Nil(t, msg.Dataset)
}

func TestUpdate_ResultAfterCloseIsDropped(t *testing.T) {
	h := newHarness(t, false)
	m := h.model
	m, _ = send(t, m, TransformDoneMsg{ActionID: "x", Dataset: &dataset.Dataset{}})
	assert.Equal(t, 0, h.owner.changes)
}

func TestUpdate_PluginDialog(t *testing.T) {
	h := newHarness(t, false, config.PluginManifest{Name: "relabel", Description: "Relabel samples", Command: []string{"cat"}})
	m := h.model
	m.SetCursor(indexOf(t, m, transform.PluginActionPrefix+"relabel"))

	m, _ = send(t, m, key("enter"))
	active, _, open := m.page.Active()
	require.True(t, open)
	assert.Equal(t, transform.DialogPlugin, active.Kind)

	view := m.View()
	assert.Contains(t, view, "Relabel samples")
}

func TestUpdate_RefreshPicksUpPlugins(t *testing.T) {
	h := newHarness(t, false)
	m := h.model
	before := len(m.Buttons())

	require.NoError(t, h.registry.Register(config.PluginManifest{Name: "late", Command: []string{"cat"}}))
	m, _ = send(t, m, key("r"))
	assert.Len(t, m.Buttons(), before+1)
}

func TestUpdate_HelpAndQuit(t *testing.T) {
	h := newHarness(t, false)
	m := h.model

	m, _ = send(t, m, key("?"))
	assert.Equal(t, ViewHelp, m.viewMode)
	m, _ = send(t, m, key("esc"))
	assert.Equal(t, ViewList, m.viewMode)

	_, cmd := send(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_WindowSize(t *testing.T) {
	h := newHarness(t, false)
	m, _ := send(t, h.model, tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.True(t, m.showError)
	assert.True(t, strings.HasPrefix(m.errorMsg, "Terminal too small"))

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.False(t, m.showError)
}

func TestView_ListAndDialog(t *testing.T) {
	h := newHarness(t, false)
	m, _ := send(t, h.model, tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	assert.Contains(t, view, "Transform Dataset")
	assert.Contains(t, view, "birds")
	assert.Contains(t, view, "media 1/2")
	assert.Contains(t, view, "Download URLs")
	assert.Contains(t, view, "[desktop]")
	assert.Contains(t, view, "(unavailable)")

	m.SetCursor(indexOf(t, m, transform.ActionRemoveInvalidSamples))
	m, _ = send(t, m, key("enter"))
	view = m.View()
	assert.Contains(t, view, "Remove Invalid Samples")
	assert.Contains(t, view, "enter: apply")
	assert.Len(t, strings.Split(view, "\n"), 40)
}

func TestCoverage_EmptyDatasetRendersNothing(t *testing.T) {
	c := newCoverage()
	assert.Empty(t, c.View(dataset.NewSnapshot(&dataset.Dataset{})))
	assert.Contains(t, c.View(dataset.NewSnapshot(&dataset.Dataset{Samples: []dataset.Sample{{ImageURL: "a.png"}}})), "media 1/1")
}
