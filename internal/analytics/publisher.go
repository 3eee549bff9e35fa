// Package analytics records user interaction events.
package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/dsxform/internal/logger"
)

// Event is one captured interaction.
type Event struct {
	Name       string
	Properties map[string]any
	Time       time.Time
}

// Handler processes a captured event. Errors are logged and do not stop
// delivery to the remaining handlers.
type Handler func(Event) error

// Subscription cancels a registered handler.
type Subscription interface {
	Unsubscribe()
}

// Publisher writes each captured event as a structured log entry and fans it
// out to subscribers. Dispatch is synchronous.
type Publisher struct {
	logger *logger.Logger
	now    func() time.Time

	mu     sync.RWMutex
	subs   map[string][]subscriptionEntry
	nextID int
}

// NewPublisher returns a Publisher logging through log.
func NewPublisher(log *logger.Logger) *Publisher {
	return &Publisher{
		logger: log,
		now:    time.Now,
		subs:   make(map[string][]subscriptionEntry),
	}
}

// Capture implements transform.Tracker.
func (p *Publisher) Capture(name string, properties map[string]any) {
	if p == nil || name == "" {
		return
	}
	event := Event{Name: name, Properties: copyProps(properties), Time: p.now()}

	p.mu.RLock()
	handlers := append([]subscriptionEntry(nil), p.subs[name]...)
	handlers = append(handlers, p.subs[""]...)
	p.mu.RUnlock()

	fields := map[string]any{"event": name}
	keys := make([]string, 0, len(event.Properties))
	for k := range event.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields["prop."+k] = event.Properties[k]
	}
	p.logger.WithFields(fields).Info("analytics event")

	for _, entry := range handlers {
		if err := entry.handler(event); err != nil {
			p.logger.With("event", name).Error(err, "analytics handler failed")
		}
	}
}

// Subscribe registers handler for events named name. An empty name receives
// every event.
func (p *Publisher) Subscribe(name string, handler Handler) Subscription {
	if p == nil || handler == nil {
		return noopSubscription{}
	}

	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[name] = append(p.subs[name], subscriptionEntry{id: id, handler: handler})
	p.mu.Unlock()

	return subscription{cancel: func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		handlers := p.subs[name]
		for i, entry := range handlers {
			if entry.id == id {
				p.subs[name] = append(handlers[:i:i], handlers[i+1:]...)
				break
			}
		}
	}}
}

func copyProps(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriptionEntry struct {
	id      int
	handler Handler
}
