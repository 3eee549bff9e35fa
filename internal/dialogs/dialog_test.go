package dialogs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/plugins"
	"github.com/alexisbeaulieu97/dsxform/internal/transform"
	dsxerrors "github.com/alexisbeaulieu97/dsxform/pkg/errors"
)

func TestCatalog_IDsMatchBuiltinsWithDialogs(t *testing.T) {
	c := NewCatalog(Options{Transforms: config.Default().Transforms})

	ids := c.IDs()
	assert.NotContains(t, ids, transform.ActionConvertKeyframesToSamples)
	for _, id := range ids {
		assert.Contains(t, transform.BuiltinIDs(), id)
		d, ok := c.Dialog(id)
		require.True(t, ok)
		assert.NotEmpty(t, d.Title)
		assert.NotNil(t, d.Transformer)
	}
	assert.Len(t, ids, len(transform.BuiltinIDs())-1)

	ids[0] = "mutated"
	assert.NotEqual(t, "mutated", c.IDs()[0])
}

func TestCatalog_Lookup(t *testing.T) {
	runner := &fakeRunner{out: &dataset.Dataset{Name: "from-plugin"}}
	c := NewCatalog(Options{Transforms: config.Default().Transforms, Runner: runner})

	_, ok := c.Lookup(transform.ActiveDialog{Kind: transform.DialogNone})
	assert.False(t, ok)

	d, ok := c.Lookup(transform.ActiveDialog{Kind: transform.DialogBuiltIn, ActionID: transform.ActionRemoveInvalidSamples})
	require.True(t, ok)
	assert.Equal(t, transform.ActionRemoveInvalidSamples, d.ID)

	_, ok = c.Lookup(transform.ActiveDialog{Kind: transform.DialogBuiltIn, ActionID: transform.ActionConvertKeyframesToSamples})
	assert.False(t, ok)

	m := config.PluginManifest{Name: "relabel", Description: "Relabel", Command: []string{"relabel"}}
	ref := plugins.ToRef(m)
	d, ok = c.Lookup(transform.ActiveDialog{Kind: transform.DialogPlugin, Plugin: &ref})
	require.True(t, ok)
	assert.Equal(t, "plugin:relabel", d.ID)
	assert.Equal(t, "Relabel", d.Description)

	out, err := d.Run(context.Background(), snap())
	require.NoError(t, err)
	assert.Equal(t, "from-plugin", out.Name)
	assert.Equal(t, "relabel", runner.got.Name)

	bare := transform.PluginRef{Name: "bare"}
	_, ok = c.Lookup(transform.ActiveDialog{Kind: transform.DialogPlugin, Plugin: &bare})
	assert.False(t, ok)
	_, ok = c.Lookup(transform.ActiveDialog{Kind: transform.DialogPlugin})
	assert.False(t, ok)
}

func TestDialog_RunWrapsFailures(t *testing.T) {
	boom := errors.New("boom")
	d := Dialog{ID: "x", Transformer: TransformerFunc(func(context.Context, dataset.Snapshot) (*dataset.Dataset, error) {
		return nil, boom
	})}

	_, err := d.Run(context.Background(), snap())
	var te *dsxerrors.TransformError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "x", te.ActionID)
	assert.ErrorIs(t, err, boom)

	_, err = Dialog{ID: "empty"}.Run(context.Background(), snap())
	require.True(t, errors.As(err, &te))
}

func TestDialog_Apply(t *testing.T) {
	var committed *dataset.Dataset
	props := transform.DialogProps{
		Open:    true,
		Dataset: snap(dataset.Sample{ID: "a"}, dataset.Sample{ID: "b", ImageURL: "https://x/b.png"}),
		OnChangeDataset: func(ds *dataset.Dataset) error {
			committed = ds
			return nil
		},
	}
	d, ok := NewCatalog(Options{}).Dialog(transform.ActionRemoveInvalidSamples)
	require.True(t, ok)

	require.NoError(t, d.Apply(context.Background(), props))
	require.NotNil(t, committed)
	assert.Len(t, committed.Samples, 1)

	props.Open = false
	assert.ErrorIs(t, d.Apply(context.Background(), props), ErrClosed)
}
