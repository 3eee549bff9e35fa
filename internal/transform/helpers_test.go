package transform

import (
	"errors"
	"sync"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

type fakeOwner struct {
	mu      sync.Mutex
	current *dataset.Dataset
	changes []*dataset.Dataset
	err     error
}

func newFakeOwner(interfaceType string) *fakeOwner {
	return &fakeOwner{current: &dataset.Dataset{Interface: dataset.Interface{Type: interfaceType}}}
}

func (o *fakeOwner) Dataset() dataset.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return dataset.NewSnapshot(o.current)
}

func (o *fakeOwner) ChangeDataset(ds *dataset.Dataset) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changes = append(o.changes, ds)
	if o.err != nil {
		return o.err
	}
	o.current = ds
	return nil
}

type recordedEvent struct {
	name  string
	props map[string]any
}

type fakeTracker struct {
	events []recordedEvent
}

func (t *fakeTracker) Capture(event string, props map[string]any) {
	t.events = append(t.events, recordedEvent{name: event, props: props})
}

func pluginSource(names ...string) PluginSource {
	return PluginSourceFunc(func() []PluginRef {
		refs := make([]PluginRef, len(names))
		for i, n := range names {
			refs[i] = PluginRef{Name: n}
		}
		return refs
	})
}

func snapshotOf(interfaceType string) dataset.Snapshot {
	return dataset.NewSnapshot(&dataset.Dataset{Interface: dataset.Interface{Type: interfaceType}})
}

var errOwnerRejected = errors.New("owner rejected dataset")
