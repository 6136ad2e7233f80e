package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tangerineArc/campus-roots-backend/models"
	"go.uber.org/zap"
)

func newTestDispatcher() (*Dispatcher, *Registry) {
	registry := NewRegistry()
	return NewDispatcher(registry, zap.NewNop()), registry
}

func popEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.send:
		return ev
	default:
		t.Fatal("no event queued on handle")
		return Event{}
	}
}

func TestDispatchReachesEveryHandleOfReceiver(t *testing.T) {
	dispatcher, registry := newTestDispatcher()

	h1 := NewClient(nil)
	h2 := NewClient(nil)
	registry.Register(1, h1)
	registry.Register(1, h2)

	message := &models.Message{SenderID: 2, ReceiverID: 1, Text: "hi"}
	delivered := dispatcher.Dispatch(message)
	assert.Equal(t, 2, delivered)

	for _, h := range []*Client{h1, h2} {
		ev := popEvent(t, h)
		assert.Equal(t, EventReceiveMessage, ev.Event)
		pushed, ok := ev.Data.(*models.Message)
		require.True(t, ok)
		assert.Equal(t, "hi", pushed.Text)
	}
}

func TestDispatchWithoutHandlesIsNotAnError(t *testing.T) {
	dispatcher, _ := newTestDispatcher()

	delivered := dispatcher.Dispatch(&models.Message{SenderID: 2, ReceiverID: 1, Text: "hi"})
	assert.Zero(t, delivered)
}

func TestDispatchSkipsDeregisteredHandle(t *testing.T) {
	dispatcher, registry := newTestDispatcher()

	h1 := NewClient(nil)
	registry.Register(1, h1)
	registry.Deregister(h1)

	delivered := dispatcher.Dispatch(&models.Message{SenderID: 2, ReceiverID: 1, Text: "hi"})
	assert.Zero(t, delivered)
	assert.Empty(t, h1.send)
}

func TestDispatchFailedHandleDoesNotBlockOthers(t *testing.T) {
	dispatcher, registry := newTestDispatcher()

	stuck := NewClient(nil)
	healthy := NewClient(nil)
	registry.Register(1, stuck)
	registry.Register(1, healthy)

	// Saturate one handle's queue so its push fails
	for i := 0; i < sendQueueSize; i++ {
		require.NoError(t, stuck.Push(Event{Event: EventError}))
	}

	delivered := dispatcher.Dispatch(&models.Message{SenderID: 2, ReceiverID: 1, Text: "hi"})
	assert.Equal(t, 1, delivered)

	ev := popEvent(t, healthy)
	assert.Equal(t, EventReceiveMessage, ev.Event)
}

func TestDispatchPreservesPerPairOrder(t *testing.T) {
	dispatcher, registry := newTestDispatcher()

	h := NewClient(nil)
	registry.Register(1, h)

	first := &models.Message{SenderID: 2, ReceiverID: 1, Text: "first"}
	second := &models.Message{SenderID: 2, ReceiverID: 1, Text: "second"}
	dispatcher.Dispatch(first)
	dispatcher.Dispatch(second)

	assert.Equal(t, "first", popEvent(t, h).Data.(*models.Message).Text)
	assert.Equal(t, "second", popEvent(t, h).Data.(*models.Message).Text)
}

func TestPushToClosedHandleFails(t *testing.T) {
	h := NewClient(nil)
	h.Close()

	err := h.Push(Event{Event: EventReceiveMessage})
	assert.ErrorIs(t, err, ErrHandleClosed)
}
