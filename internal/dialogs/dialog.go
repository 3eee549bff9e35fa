// Package dialogs implements the transform dialogs opened from the menu.
package dialogs

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
	"github.com/alexisbeaulieu97/dsxform/internal/plugins"
	"github.com/alexisbeaulieu97/dsxform/internal/transform"
	dsxerrors "github.com/alexisbeaulieu97/dsxform/pkg/errors"
)

// ErrClosed is returned when a dialog is applied with closed props.
var ErrClosed = errors.New("dialog is not open")

// Transformer computes a new dataset from a snapshot. Implementations must
// not modify the snapshot.
type Transformer interface {
	Transform(ctx context.Context, snap dataset.Snapshot) (*dataset.Dataset, error)
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(ctx context.Context, snap dataset.Snapshot) (*dataset.Dataset, error)

// Transform implements Transformer.
func (f TransformerFunc) Transform(ctx context.Context, snap dataset.Snapshot) (*dataset.Dataset, error) {
	return f(ctx, snap)
}

// Dialog is one transform dialog.
type Dialog struct {
	ID          string
	Title       string
	Description string
	Transformer Transformer
}

// Run computes the transformed dataset. Failures are TransformErrors.
func (d Dialog) Run(ctx context.Context, snap dataset.Snapshot) (*dataset.Dataset, error) {
	if d.Transformer == nil {
		return nil, dsxerrors.NewTransformError(d.ID, fmt.Errorf("dialog has no transformer"))
	}
	out, err := d.Transformer.Transform(ctx, snap)
	if err != nil {
		return nil, dsxerrors.NewTransformError(d.ID, err)
	}
	return out, nil
}

// Apply runs the dialog against props.Dataset and commits the result through
// props.OnChangeDataset.
func (d Dialog) Apply(ctx context.Context, props transform.DialogProps) error {
	if !props.Open {
		return ErrClosed
	}
	out, err := d.Run(ctx, props.Dataset)
	if err != nil {
		return err
	}
	return props.OnChangeDataset(out)
}

// PluginRunner executes a plugin process.
type PluginRunner interface {
	Run(ctx context.Context, m config.PluginManifest, snap dataset.Snapshot) (*dataset.Dataset, error)
}

// Options wires the dependencies of the built-in dialogs.
type Options struct {
	Transforms config.TransformsConfig
	Uploader   Uploader
	HTTPClient *http.Client
	Extractor  FrameExtractor
	Runner     PluginRunner
	Logger     *logger.Logger
	// NewID generates sample ids. Defaults to uuid.NewString.
	NewID func() string
}

// Catalog holds the built-in dialogs in menu order.
type Catalog struct {
	order   []string
	dialogs map[string]Dialog
	runner  PluginRunner
}

// NewCatalog builds the dialogs for every built-in action that has one.
func NewCatalog(opts Options) *Catalog {
	newID := idFunc(opts.NewID)
	log := opts.Logger

	all := []Dialog{
		{
			ID:          transform.ActionConvertLocalFilesToWebURLs,
			Title:       "Transform Local Files to Web URLs",
			Description: "Upload every local file referenced by the dataset and replace its path with the public URL.",
			Transformer: &LocalFilesToWebURLs{Uploader: opts.Uploader, Logger: log},
		},
		{
			ID:          transform.ActionDownloadURLs,
			Title:       "Download URLs",
			Description: "Download every remote file referenced by the dataset and replace its URL with the local path.",
			Transformer: &DownloadURLs{Dir: opts.Transforms.Download.Dir, Timeout: opts.Transforms.Download.Timeout, Client: opts.HTTPClient, Logger: log},
		},
		{
			ID:          transform.ActionConvertVideoFramesToImages,
			Title:       "Convert Video Frames to Images",
			Description: "Extract frames from every video sample and replace it with one image sample per frame.",
			Transformer: &VideoFramesToImages{
				Extractor: opts.Extractor,
				FPS:       opts.Transforms.VideoFrames.FPS,
				OutputDir: opts.Transforms.VideoFrames.OutputDir,
				NewID:     newID,
				Logger:    log,
			},
		},
		{
			ID:          transform.ActionSplitImagesIntoSegments,
			Title:       "Split Image Samples into Segments",
			Description: fmt.Sprintf("Split every image sample into a %dx%d grid of segment samples.", opts.Transforms.Segments.Rows, opts.Transforms.Segments.Cols),
			Transformer: &SplitSegments{Rows: opts.Transforms.Segments.Rows, Cols: opts.Transforms.Segments.Cols, NewID: newID},
		},
		{
			ID:          transform.ActionCombineSegmentsIntoImages,
			Title:       "Combine Segments into Image Samples",
			Description: "Merge segment samples back into one image sample per source image.",
			Transformer: CombineSegments{},
		},
		{
			ID:          transform.ActionRemoveInvalidSamples,
			Title:       "Remove Invalid Samples",
			Description: "Drop samples that reference no media or document.",
			Transformer: RemoveInvalid{},
		},
	}

	c := &Catalog{dialogs: make(map[string]Dialog, len(all)), runner: opts.Runner}
	for _, d := range all {
		c.order = append(c.order, d.ID)
		c.dialogs[d.ID] = d
	}
	return c
}

// IDs returns the action ids that have a built-in dialog.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Dialog returns the built-in dialog for id.
func (c *Catalog) Dialog(id string) (Dialog, bool) {
	d, ok := c.dialogs[id]
	return d, ok
}

// Lookup resolves the dialog an ActiveDialog refers to.
func (c *Catalog) Lookup(active transform.ActiveDialog) (Dialog, bool) {
	switch active.Kind {
	case transform.DialogBuiltIn:
		return c.Dialog(active.ActionID)
	case transform.DialogPlugin:
		if active.Plugin == nil {
			return Dialog{}, false
		}
		return c.pluginDialog(*active.Plugin)
	default:
		return Dialog{}, false
	}
}

func (c *Catalog) pluginDialog(ref transform.PluginRef) (Dialog, bool) {
	m, ok := plugins.ManifestFromRef(ref)
	if !ok {
		return Dialog{}, false
	}
	runner := c.runner
	return Dialog{
		ID:          transform.PluginActionPrefix + ref.Name,
		Title:       ref.Name,
		Description: ref.Description,
		Transformer: TransformerFunc(func(ctx context.Context, snap dataset.Snapshot) (*dataset.Dataset, error) {
			if runner == nil {
				return nil, fmt.Errorf("no plugin runner configured")
			}
			return runner.Run(ctx, m, snap)
		}),
	}, true
}

func idFunc(f func() string) func() string {
	if f == nil {
		return uuid.NewString
	}
	return f
}
