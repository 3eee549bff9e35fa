package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCloneIsIndependent(t *testing.T) {
	t.Parallel()

	at := 1.5
	ds := &Dataset{
		Interface: Interface{Type: InterfaceVideoSegmentation, Labels: []string{"cat"}},
		Samples: []Sample{{
			VideoURL:     "https://example.com/a.mp4",
			VideoFrameAt: &at,
			Annotation:   map[string]any{"labels": []any{"cat"}},
		}},
	}
	snap := NewSnapshot(ds)

	clone := snap.Clone()
	clone.Interface.Labels[0] = "dog"
	*clone.Samples[0].VideoFrameAt = 9
	clone.Samples[0].Annotation.(map[string]any)["labels"].([]any)[0] = "dog"

	assert.Equal(t, "cat", ds.Interface.Labels[0])
	assert.Equal(t, 1.5, *ds.Samples[0].VideoFrameAt)
	assert.Equal(t, "cat", ds.Samples[0].Annotation.(map[string]any)["labels"].([]any)[0])
	assert.Equal(t, InterfaceVideoSegmentation, snap.InterfaceType())
	assert.Equal(t, 1, snap.Len())
}

func TestZeroSnapshotIsEmpty(t *testing.T) {
	t.Parallel()

	var snap Snapshot
	assert.Equal(t, "", snap.InterfaceType())
	assert.Equal(t, 0, snap.Len())
	require.NotNil(t, snap.Clone())
}

func TestSampleHasMedia(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		sample Sample
		want   bool
	}{
		{name: "image", sample: Sample{ImageURL: "a.png"}, want: true},
		{name: "document", sample: Sample{Document: "hello"}, want: true},
		{name: "pdf", sample: Sample{PDFURL: "a.pdf"}, want: true},
		{name: "annotation only", sample: Sample{Annotation: "cat"}, want: false},
		{name: "empty", sample: Sample{}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sample.HasMedia())
		})
	}
}
