package dialogs

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
)

// Uploader stores a local file and returns a URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// LocalFilesToWebURLs uploads local files referenced by samples and rewrites
// the references to the returned URLs. A file referenced several times is
// uploaded once.
type LocalFilesToWebURLs struct {
	Uploader Uploader
	Logger   *logger.Logger
}

// Transform implements Transformer.
func (t *LocalFilesToWebURLs) Transform(ctx context.Context, snap dataset.Snapshot) (*dataset.Dataset, error) {
	if t.Uploader == nil {
		return nil, fmt.Errorf("no upload store configured (set transforms.upload.bucket)")
	}

	out := snap.Clone()
	uploaded := make(map[string]string)
	for i := range out.Samples {
		for _, field := range out.Samples[i].URLFields() {
			path, ok := localPath(*field)
			if !ok {
				continue
			}
			if u, done := uploaded[path]; done {
				*field = u
				continue
			}
			u, err := t.Uploader.Upload(ctx, path)
			if err != nil {
				return nil, fmt.Errorf("upload %s: %w", path, err)
			}
			uploaded[path] = u
			*field = u
		}
	}

	t.Logger.With("files", len(uploaded)).Info("uploaded local files")
	return out, nil
}

// localPath reports whether ref points at a local file and returns its path.
func localPath(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil || u.Path == "" {
			return "", false
		}
		return filepath.FromSlash(u.Path), true
	}
	if filepath.IsAbs(ref) {
		return ref, true
	}
	return "", false
}
