package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []Event
	d.Subscribe(EventComplaintCreated, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return nil
	})
	d.Subscribe(EventComplaintResolved, func(_ context.Context, e Event) error {
		t.Fatal("handler for different event type should not fire")
		return nil
	})

	err := d.Publish(context.Background(), Event{
		ID:          "evt-1",
		Type:        EventComplaintCreated,
		ComplaintID: "c-1",
	})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "evt-1", seen[0].ID)
}

func TestDispatcherContinuesPastHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls int
	d.Subscribe(EventMessageSent, func(_ context.Context, _ Event) error {
		calls++
		return errors.New("boom")
	})
	d.Subscribe(EventMessageSent, func(_ context.Context, _ Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventMessageSent})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
