package dialogs

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

// SplitSegments replaces every image sample by a Rows x Cols grid of segment
// samples referencing the same image. Samples that already are segments, or
// carry no image, are kept as they are.
type SplitSegments struct {
	Rows  int
	Cols  int
	NewID func() string
}

// Transform implements Transformer.
func (t *SplitSegments) Transform(ctx context.Context, snap dataset.Snapshot) (*dataset.Dataset, error) {
	if t.Rows < 1 || t.Cols < 1 {
		return nil, fmt.Errorf("invalid segment grid %dx%d", t.Rows, t.Cols)
	}

	src := snap.Clone()
	out := &dataset.Dataset{Name: src.Name, Interface: src.Interface}
	out.Samples = make([]dataset.Sample, 0, len(src.Samples))

	newID := idFunc(t.NewID)
	w := 1 / float64(t.Cols)
	h := 1 / float64(t.Rows)
	for _, s := range src.Samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.ImageURL == "" || s.Segment != nil {
			out.Samples = append(out.Samples, s)
			continue
		}
		sourceID := s.ID
		if sourceID == "" {
			sourceID = newID()
		}
		for r := 0; r < t.Rows; r++ {
			for c := 0; c < t.Cols; c++ {
				out.Samples = append(out.Samples, dataset.Sample{
					ID:       newID(),
					ImageURL: s.ImageURL,
					SourceID: sourceID,
					Segment: &dataset.Segment{
						X:      float64(c) * w,
						Y:      float64(r) * h,
						Width:  w,
						Height: h,
					},
				})
			}
		}
	}
	return out, nil
}

// CombineSegments merges segment samples back into one image sample per
// source, placed where the first segment of that source was.
type CombineSegments struct{}

// Transform implements Transformer.
func (CombineSegments) Transform(ctx context.Context, snap dataset.Snapshot) (*dataset.Dataset, error) {
	src := snap.Clone()
	out := &dataset.Dataset{Name: src.Name, Interface: src.Interface}
	out.Samples = make([]dataset.Sample, 0, len(src.Samples))

	seen := make(map[string]struct{})
	for _, s := range src.Samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.Segment == nil {
			out.Samples = append(out.Samples, s)
			continue
		}
		key := s.SourceID
		if key == "" {
			key = "url:" + s.ImageURL
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Samples = append(out.Samples, dataset.Sample{ID: s.SourceID, ImageURL: s.ImageURL})
	}
	return out, nil
}
