package chat

import (
	"github.com/tangerineArc/campus-roots-backend/models"
	"go.uber.org/zap"
)

// Dispatcher pushes stored messages to whichever handles the receiver has
// live right now. Delivery is fire-and-forget: durability already happened in
// the store, so a failed push is logged and skipped, and the receiver sees
// the message on their next history read instead.
type Dispatcher struct {
	registry *Registry
	log      *zap.Logger
}

func NewDispatcher(registry *Registry, log *zap.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, log: log}
}

// Dispatch pushes the message to every registered handle of its receiver and
// reports how many pushes were accepted. Zero live handles is not an error.
func (d *Dispatcher) Dispatch(message *models.Message) int {
	delivered := 0
	for _, handle := range d.registry.HandlesFor(message.ReceiverID) {
		err := handle.Push(Event{Event: EventReceiveMessage, Data: message})
		if err != nil {
			d.log.Warn("message push failed",
				zap.String("handleID", handle.ID),
				zap.Uint("receiverID", message.ReceiverID),
				zap.Uint("messageID", message.ID),
				zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}
