package dialogs

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func snap(samples ...dataset.Sample) dataset.Snapshot {
	return dataset.NewSnapshot(&dataset.Dataset{
		Name:      "fixture",
		Interface: dataset.Interface{Type: dataset.InterfaceImageClassification, Labels: []string{"cat", "dog"}},
		Samples:   samples,
	})
}

type fakeUploader struct {
	calls []string
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, path string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.calls = append(u.calls, path)
	return "https://cdn.example.com" + path, nil
}

type fakeExtractor struct {
	frames int
	videos []string
	dirs   []string
}

func (e *fakeExtractor) Extract(_ context.Context, video string, fps float64, outDir string) ([]Frame, error) {
	e.videos = append(e.videos, video)
	e.dirs = append(e.dirs, outDir)
	frames := make([]Frame, e.frames)
	for i := range frames {
		frames[i] = Frame{Path: fmt.Sprintf("%s/frame-%06d.png", outDir, i+1), At: float64(i) / fps}
	}
	return frames, nil
}

type fakeRunner struct {
	got config.PluginManifest
	out *dataset.Dataset
	err error
}

func (r *fakeRunner) Run(_ context.Context, m config.PluginManifest, _ dataset.Snapshot) (*dataset.Dataset, error) {
	r.got = m
	return r.out, r.err
}
