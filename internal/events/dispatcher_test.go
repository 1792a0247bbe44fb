package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []string
	d.Subscribe(EventClassificationCompleted, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.TicketID)
		return nil
	})
	d.Subscribe(EventClassificationCompleted, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.TicketID)
		return nil
	})
	d.Subscribe(EventAutomationFailed, func(_ context.Context, e Event) error {
		seen = append(seen, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventClassificationCompleted, TicketID: "TK-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:TK-1", "second:TK-1"}, seen)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	err := d.Publish(context.Background(), Event{Type: EventAutomationStarted, TicketID: "TK-2"})
	assert.NoError(t, err)
}

func TestFailingHandlerDoesNotBlockOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventAutomationCompleted, func(context.Context, Event) error {
		return errors.New("handler down")
	})
	d.Subscribe(EventAutomationCompleted, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventAutomationCompleted})
	require.NoError(t, err)
	assert.True(t, called)
}
