package streaming

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()

	ch, cancel, err := hub.Subscribe(ctx, EventFilter{})
	require.NoError(t, err)
	defer cancel()

	event := VerdictEvent{
		RequestID:   "req-1",
		DiagramType: "flowchart",
		EventType:   EventValidationPassed,
		Payload:     map[string]any{"nodeCount": 4},
	}

	err = hub.Publish(ctx, event)
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, event.RequestID, got.RequestID)
		assert.Equal(t, event.DiagramType, got.DiagramType)
		assert.Equal(t, event.EventType, got.EventType)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestFilterByDiagramType(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()

	ch, cancel, err := hub.Subscribe(ctx, EventFilter{DiagramType: "flowchart"})
	require.NoError(t, err)
	defer cancel()

	// Should be received (matching type)
	err = hub.Publish(ctx, VerdictEvent{DiagramType: "flowchart", EventType: EventValidationPassed})
	require.NoError(t, err)

	// Should be dropped (different type)
	err = hub.Publish(ctx, VerdictEvent{DiagramType: "sequence", EventType: EventValidationPassed})
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, "flowchart", got.DiagramType)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	// Channel should be empty -- the sequence event was filtered out.
	select {
	case evt := <-ch:
		t.Fatalf("unexpected event: %+v", evt)
	case <-time.After(50 * time.Millisecond):
		// expected
	}
}

func TestFilterByEventType(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()

	ch, cancel, err := hub.Subscribe(ctx, EventFilter{
		EventTypes: []string{EventValidationFailed},
	})
	require.NoError(t, err)
	defer cancel()

	// Should be dropped
	err = hub.Publish(ctx, VerdictEvent{DiagramType: "flowchart", EventType: EventValidationPassed})
	require.NoError(t, err)

	// Should be received
	err = hub.Publish(ctx, VerdictEvent{DiagramType: "flowchart", EventType: EventValidationFailed})
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, EventValidationFailed, got.EventType)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	// No more events
	select {
	case evt := <-ch:
		t.Fatalf("unexpected event: %+v", evt)
	case <-time.After(50 * time.Millisecond):
		// expected
	}
}

func TestMultipleSubscribers(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()

	ch1, cancel1, err := hub.Subscribe(ctx, EventFilter{})
	require.NoError(t, err)
	defer cancel1()

	ch2, cancel2, err := hub.Subscribe(ctx, EventFilter{})
	require.NoError(t, err)
	defer cancel2()

	event := VerdictEvent{RequestID: "req-1", EventType: EventValidationPassed}
	err = hub.Publish(ctx, event)
	require.NoError(t, err)

	for _, ch := range []<-chan VerdictEvent{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, "req-1", got.RequestID)
			assert.Equal(t, EventValidationPassed, got.EventType)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestCancelSubscription(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()

	ch, cancel, err := hub.Subscribe(ctx, EventFilter{})
	require.NoError(t, err)

	// Cancel removes the subscriber
	cancel()

	err = hub.Publish(ctx, VerdictEvent{RequestID: "req-1", EventType: EventValidationPassed})
	require.NoError(t, err)

	select {
	case evt := <-ch:
		t.Fatalf("unexpected event after cancel: %+v", evt)
	case <-time.After(50 * time.Millisecond):
		// expected: subscriber was removed
	}

	// Verify subscriber map is empty
	hub.mu.RLock()
	assert.Empty(t, hub.subs)
	hub.mu.RUnlock()
}

func TestBackpressure(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()

	ch, cancel, err := hub.Subscribe(ctx, EventFilter{})
	require.NoError(t, err)
	defer cancel()

	// Fill the channel buffer (64) then publish a few more.
	// None of these should block.
	for i := 0; i < defaultChannelBuffer+10; i++ {
		err = hub.Publish(ctx, VerdictEvent{EventType: EventValidationPassed})
		require.NoError(t, err)
	}

	// We should be able to drain exactly defaultChannelBuffer events.
	drained := 0
	for {
		select {
		case <-ch:
			drained++
		default:
			goto done
		}
	}
done:
	assert.Equal(t, defaultChannelBuffer, drained)
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()
	const goroutines = 20
	const eventsPerGoroutine = 50

	var wg sync.WaitGroup

	cancels := make([]func(), goroutines)
	for i := 0; i < goroutines; i++ {
		_, cancel, err := hub.Subscribe(ctx, EventFilter{})
		require.NoError(t, err)
		cancels[i] = cancel
	}
	defer func() {
		for _, c := range cancels {
			c()
		}
	}()

	// Concurrent publishers
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				_ = hub.Publish(ctx, VerdictEvent{EventType: EventValidationPassed})
			}
		}()
	}

	// Concurrent subscribers being added/removed
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch, cancel, err := hub.Subscribe(ctx, EventFilter{})
			if err != nil {
				return
			}
			for range 5 {
				select {
				case <-ch:
				case <-time.After(10 * time.Millisecond):
				}
			}
			cancel()
		}()
	}

	wg.Wait()
}

func TestPublishCancelledContext(t *testing.T) {
	hub := NewMemoryHub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := hub.Publish(ctx, VerdictEvent{EventType: EventValidationPassed})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubscribeCancelledContext(t *testing.T) {
	hub := NewMemoryHub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := hub.Subscribe(ctx, EventFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
