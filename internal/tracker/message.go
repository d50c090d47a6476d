package tracker

import (
	"sync"
	"time"
)

// DefaultMessageTTL is how long a message stays visible unless replaced.
const DefaultMessageTTL = 4 * time.Second

type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

type Message struct {
	Text string
	Kind MessageKind
}

func (m Message) IsZero() bool {
	return m.Text == ""
}

// Flash holds one transient message that clears itself after a TTL. Showing a new
// message cancels the pending clear of the previous one.
type Flash struct {
	mu         sync.Mutex
	ttl        time.Duration
	current    Message
	generation uint64
	timer      *time.Timer
}

func NewFlash(ttl time.Duration) *Flash {
	if ttl <= 0 {
		ttl = DefaultMessageTTL
	}
	return &Flash{ttl: ttl}
}

func (f *Flash) Show(text string, kind MessageKind) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopLocked()
	f.generation++
	f.current = Message{Text: text, Kind: kind}

	gen := f.generation
	f.timer = time.AfterFunc(f.ttl, func() { f.expire(gen) })
}

func (f *Flash) Current() Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *Flash) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopLocked()
	f.generation++
	f.current = Message{}
}

// Stop cancels the pending clear and keeps the current message.
func (f *Flash) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
}

func (f *Flash) stopLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// expire clears the message only if no newer Show or Clear happened since gen was issued.
func (f *Flash) expire(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.generation != gen {
		return
	}
	f.current = Message{}
	f.timer = nil
}
