package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

func newTestPage(t *testing.T, owner Owner, env Environment, source PluginSource, tracker Tracker) *Page {
	t.Helper()
	reg, err := NewRegistry(nil)
	require.NoError(t, err)
	page, err := NewPage(PageOptions{
		Registry: reg,
		Source:   source,
		Env:      env,
		Owner:    owner,
		Tracker:  tracker,
	})
	require.NoError(t, err)
	return page
}

func buttonByID(t *testing.T, buttons []Button, id string) Button {
	t.Helper()
	for _, b := range buttons {
		if b.Action.ID == id {
			return b
		}
	}
	t.Fatalf("no button %q", id)
	return Button{}
}

func TestNewPageRequiresOwner(t *testing.T) {
	t.Parallel()

	_, err := NewPage(PageOptions{})
	require.Error(t, err)
}

func TestPageButtonsReflectGate(t *testing.T) {
	t.Parallel()

	owner := newFakeOwner(dataset.InterfaceImageClassification)
	page := newTestPage(t, owner, StaticEnvironment{Desktop: false}, nil, nil)

	buttons, err := page.Buttons()
	require.NoError(t, err)

	assert.False(t, buttonByID(t, buttons, ActionConvertKeyframesToSamples).Enabled)
	assert.False(t, buttonByID(t, buttons, ActionDownloadURLs).Enabled)
	assert.True(t, buttonByID(t, buttons, ActionRemoveInvalidSamples).Enabled)

	owner.current = &dataset.Dataset{Interface: dataset.Interface{Type: dataset.InterfaceVideoSegmentation}}
	buttons, err = page.Buttons()
	require.NoError(t, err)
	assert.True(t, buttonByID(t, buttons, ActionConvertKeyframesToSamples).Enabled)
}

func TestPageClickDisabledIsRejectedButTracked(t *testing.T) {
	t.Parallel()

	owner := newFakeOwner(dataset.InterfaceImageClassification)
	tracker := &fakeTracker{}
	page := newTestPage(t, owner, StaticEnvironment{Desktop: false}, nil, tracker)

	buttons, err := page.Buttons()
	require.NoError(t, err)

	state, err := page.Click(buttonByID(t, buttons, ActionDownloadURLs))
	require.ErrorIs(t, err, ErrActionDisabled)
	assert.True(t, state.IsNone())
	require.Len(t, tracker.events, 1)
}

func TestPageClickTracksExactlyOnce(t *testing.T) {
	t.Parallel()

	owner := newFakeOwner(dataset.InterfaceVideoSegmentation)
	tracker := &fakeTracker{}
	page := newTestPage(t, owner, StaticEnvironment{Desktop: true}, pluginSource("Foo"), tracker)

	buttons, err := page.Buttons()
	require.NoError(t, err)

	// The keyframes click does not open anything but is still tracked.
	state, err := page.Click(buttonByID(t, buttons, ActionConvertKeyframesToSamples))
	require.NoError(t, err)
	assert.True(t, state.IsNone())

	_, err = page.Click(buttonByID(t, buttons, ActionDownloadURLs))
	require.NoError(t, err)

	_, err = page.Click(buttonByID(t, buttons, "plugin:Foo"))
	require.NoError(t, err)

	require.Len(t, tracker.events, 3)
	for _, e := range tracker.events {
		assert.Equal(t, ButtonClickedEvent, e.name)
	}
	assert.Equal(t, ActionConvertKeyframesToSamples, tracker.events[0].props["transform_button"])
	assert.Equal(t, ActionDownloadURLs, tracker.events[1].props["transform_button"])
	assert.Equal(t, "Foo", tracker.events[2].props["transform_button"])
}

func TestPageClickPluginThenBuiltIn(t *testing.T) {
	t.Parallel()

	owner := newFakeOwner(dataset.InterfaceImageClassification)
	page := newTestPage(t, owner, StaticEnvironment{}, pluginSource("P"), nil)

	state, err := page.ClickID("P")
	require.NoError(t, err)
	assert.Equal(t, StatePlugin, state.Kind())

	state, err = page.ClickID(ActionRemoveInvalidSamples)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoveInvalidSamples, state.ActionID())

	active, _, ok := page.Active()
	require.True(t, ok)
	assert.Equal(t, DialogBuiltIn, active.Kind)

	mounted := page.Mounted()
	assert.Equal(t, 1, openCount(mounted))
	for _, m := range mounted {
		assert.NotEqual(t, DialogPlugin, m.Kind, "plugin dialog is no longer mounted")
	}
}

func TestPageClickIDUnknownSuggests(t *testing.T) {
	t.Parallel()

	owner := newFakeOwner(dataset.InterfaceImageClassification)
	page := newTestPage(t, owner, StaticEnvironment{}, nil, nil)

	_, err := page.ClickID("remove-invalid-sample")
	var unknown *UnknownActionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, ActionRemoveInvalidSamples, unknown.Suggestion)

	_, err = page.ClickID("zzz")
	require.ErrorAs(t, err, &unknown)
	assert.Empty(t, unknown.Suggestion)
}

func TestPageDuplicatePluginsDisabled(t *testing.T) {
	t.Parallel()

	owner := newFakeOwner(dataset.InterfaceImageClassification)
	page := newTestPage(t, owner, StaticEnvironment{}, pluginSource("Foo", "Foo"), nil)

	buttons, err := page.Buttons()
	var dup *DuplicatePluginError
	require.ErrorAs(t, err, &dup)

	_, err = page.ClickID("Foo")
	require.ErrorIs(t, err, ErrActionDisabled)
	assert.True(t, page.Controller().State().IsNone())
	assert.Len(t, buttons, len(BuiltinIDs())+2)
}

func TestPageMutationFlow(t *testing.T) {
	t.Parallel()

	owner := newFakeOwner(dataset.InterfaceImageClassification)
	page := newTestPage(t, owner, StaticEnvironment{}, nil, nil)

	_, err := page.ClickID(ActionSplitImagesIntoSegments)
	require.NoError(t, err)

	_, props, ok := page.Active()
	require.True(t, ok)

	next := props.Dataset.Clone()
	next.Name = "segmented"
	require.NoError(t, props.OnChangeDataset(next))

	assert.Equal(t, "segmented", owner.Dataset().Name())
	assert.True(t, page.Controller().State().IsNone())
	_, _, ok = page.Active()
	assert.False(t, ok)
}
