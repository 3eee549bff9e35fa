package dialogs

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
)

// DownloadURLs fetches every http(s) reference into Dir and rewrites it to the
// absolute local path. Files already present are not fetched again.
type DownloadURLs struct {
	Dir     string
	Timeout time.Duration
	Client  *http.Client
	Logger  *logger.Logger
}

// Transform implements Transformer.
func (t *DownloadURLs) Transform(ctx context.Context, snap dataset.Snapshot) (*dataset.Dataset, error) {
	dir := t.Dir
	if dir == "" {
		dir = "downloads"
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	out := snap.Clone()
	fetched := 0
	for i := range out.Samples {
		for _, field := range out.Samples[i].URLFields() {
			u, err := url.Parse(*field)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				continue
			}
			dest := filepath.Join(dir, downloadName(u))
			if _, err := os.Stat(dest); err != nil {
				if err := t.fetch(ctx, client, u.String(), dest); err != nil {
					return nil, err
				}
				fetched++
			}
			*field = dest
		}
	}

	t.Logger.WithFields(map[string]any{"dir": dir, "files": fetched}).Info("downloaded remote files")
	return out, nil
}

func (t *DownloadURLs) fetch(ctx context.Context, client *http.Client, rawURL, dest string) error {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("download %s: unexpected status %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// downloadName derives a stable file name from the URL, keeping its extension.
func downloadName(u *url.URL) string {
	sum := sha1.Sum([]byte(u.String()))
	return hex.EncodeToString(sum[:])[:16] + path.Ext(u.Path)
}
