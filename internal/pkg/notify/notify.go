// Package notify is an in-process publish/subscribe channel for payload-free events.
//
// Publish runs every listener registered at the moment of the call, synchronously, on
// the publisher's goroutine. Listeners registered afterwards never see earlier events.
package notify

import (
	"sync"
)

// Listener reacts to an event. It receives no payload.
type Listener func()

// Publisher emits events.
type Publisher interface {
	Publish(event string) int
}

// Subscriber registers listeners. The returned func removes the listener and is safe
// to call more than once.
type Subscriber interface {
	Subscribe(event string, fn Listener) (unsubscribe func())
}

// Notifier implements Publisher and Subscriber.
type Notifier struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[string]map[uint64]Listener
}

func New() *Notifier {
	return &Notifier{
		listeners: make(map[string]map[uint64]Listener),
	}
}

func (n *Notifier) Subscribe(event string, fn Listener) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	if n.listeners[event] == nil {
		n.listeners[event] = make(map[uint64]Listener)
	}
	n.listeners[event][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.listeners[event], id)
			if len(n.listeners[event]) == 0 {
				delete(n.listeners, event)
			}
		})
	}
}

// Publish invokes the listeners of event and returns how many ran. The lock is not
// held while listeners run, so they may publish or (un)subscribe themselves.
func (n *Notifier) Publish(event string) int {
	n.mu.Lock()
	snapshot := make([]Listener, 0, len(n.listeners[event]))
	for _, fn := range n.listeners[event] {
		snapshot = append(snapshot, fn)
	}
	n.mu.Unlock()

	for _, fn := range snapshot {
		fn()
	}
	return len(snapshot)
}

// Count returns the number of listeners currently registered for event.
func (n *Notifier) Count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners[event])
}
