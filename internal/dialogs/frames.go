package dialogs

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
)

// Frame is one extracted still.
type Frame struct {
	Path string
	At   float64
}

// FrameExtractor extracts stills from a video at a fixed rate.
type FrameExtractor interface {
	Extract(ctx context.Context, video string, fps float64, outDir string) ([]Frame, error)
}

// FFmpegExtractor runs the ffmpeg binary.
type FFmpegExtractor struct {
	Binary  string
	Timeout time.Duration
}

// Extract implements FrameExtractor. Frames are written as PNG files to outDir.
func (e FFmpegExtractor) Extract(ctx context.Context, video string, fps float64, outDir string) ([]Frame, error) {
	bin := e.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	if err := removeFrames(outDir); err != nil {
		return nil, err
	}

	pattern := filepath.Join(outDir, "frame-%06d.png")
	cmd := exec.CommandContext(ctx, bin,
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", video,
		"-vf", "fps="+strconv.FormatFloat(fps, 'f', -1, 64),
		pattern,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg %s: %w: %s", video, err, strings.TrimSpace(string(out)))
	}

	paths, err := filepath.Glob(filepath.Join(outDir, "frame-*.png"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	frames := make([]Frame, len(paths))
	for i, p := range paths {
		frames[i] = Frame{Path: p, At: float64(i) / fps}
	}
	return frames, nil
}

// removeFrames deletes frames left in dir by an earlier extraction.
func removeFrames(dir string) error {
	stale, err := filepath.Glob(filepath.Join(dir, "frame-*.png"))
	if err != nil {
		return err
	}
	for _, p := range stale {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale frame %s: %w", p, err)
		}
	}
	return nil
}

// VideoFramesToImages replaces every video sample by one image sample per
// extracted frame.
type VideoFramesToImages struct {
	Extractor FrameExtractor
	FPS       float64
	OutputDir string
	NewID     func() string
	Logger    *logger.Logger
}

// Transform implements Transformer.
func (t *VideoFramesToImages) Transform(ctx context.Context, snap dataset.Snapshot) (*dataset.Dataset, error) {
	if t.Extractor == nil {
		return nil, fmt.Errorf("no frame extractor configured")
	}
	fps := t.FPS
	if fps <= 0 {
		fps = 1
	}
	root := t.OutputDir
	if root == "" {
		root = "frames"
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	src := snap.Clone()
	out := &dataset.Dataset{Name: src.Name, Interface: src.Interface}
	out.Samples = make([]dataset.Sample, 0, len(src.Samples))

	newID := idFunc(t.NewID)
	videos := 0
	for _, s := range src.Samples {
		if s.VideoURL == "" {
			out.Samples = append(out.Samples, s)
			continue
		}
		video := s.VideoURL
		if p, ok := localPath(video); ok {
			video = p
		}
		frames, err := t.Extractor.Extract(ctx, video, fps, filepath.Join(root, frameDirName(s)))
		if err != nil {
			return nil, err
		}
		sourceID := s.ID
		for _, f := range frames {
			at := f.At
			out.Samples = append(out.Samples, dataset.Sample{
				ID:           newID(),
				ImageURL:     f.Path,
				VideoFrameAt: &at,
				SourceID:     sourceID,
			})
		}
		videos++
	}

	t.Logger.WithFields(map[string]any{"videos": videos, "samples": len(out.Samples)}).Info("extracted video frames")
	return out, nil
}

func frameDirName(s dataset.Sample) string {
	if s.ID != "" && s.ID != "." && s.ID != ".." && !strings.ContainsAny(s.ID, `/\`) {
		return s.ID
	}
	sum := sha1.Sum([]byte(s.VideoURL))
	return hex.EncodeToString(sum[:])[:16]
}
