package chat

import "encoding/json"

// Socket protocol event names, both directions.
const (
	EventRegister       = "register"
	EventSendMessage    = "send-message"
	EventReceiveMessage = "receive-message"
	EventError          = "error"
)

// Event is an outbound protocol frame.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type registerPayload struct {
	UserID uint `json:"userId"`
}

type sendMessagePayload struct {
	SenderID   uint   `json:"senderId"`
	ReceiverID uint   `json:"receiverId"`
	Text       string `json:"text"`
}
