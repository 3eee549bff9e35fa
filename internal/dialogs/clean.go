package dialogs

import (
	"context"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

// RemoveInvalid drops samples that reference no media or document.
type RemoveInvalid struct{}

// Transform implements Transformer.
func (RemoveInvalid) Transform(_ context.Context, snap dataset.Snapshot) (*dataset.Dataset, error) {
	out := snap.Clone()
	kept := out.Samples[:0]
	for _, s := range out.Samples {
		if s.HasMedia() {
			kept = append(kept, s)
		}
	}
	out.Samples = kept
	return out, nil
}
