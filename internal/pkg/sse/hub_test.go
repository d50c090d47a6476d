package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesEverySubscriber(t *testing.T) {
	hub := NewHub()

	first, cleanupFirst := hub.Subscribe()
	defer cleanupFirst()
	second, cleanupSecond := hub.Subscribe()
	defer cleanupSecond()

	assert.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(Event{Event: "attendance:added", Data: map[string]string{"id": "1"}})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case ev := <-ch:
			assert.Equal(t, "attendance:added", ev.Event)
		default:
			t.Fatal("expected event to be buffered")
		}
	}
}

func TestHub_CleanupClosesChannel(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe()
	cleanup()
	cleanup() // idempotent

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount())

	// Publishing with no subscribers is a no-op.
	hub.Publish(Event{Event: "attendance:added"})
}

func TestHub_FullSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe()
	defer cleanup()

	for i := 0; i < hub.bufferSize+5; i++ {
		hub.Publish(Event{Event: "attendance:added", Data: i})
	}

	require.Len(t, ch, hub.bufferSize)
	ev := <-ch
	assert.Equal(t, 0, ev.Data)
}
