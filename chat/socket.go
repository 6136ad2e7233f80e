package chat

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/tangerineArc/campus-roots-backend/utils"
	"go.uber.org/zap"
)

// Server terminates websocket connections and speaks the chat event protocol.
// Messages are persisted before any delivery attempt; a push that goes
// nowhere still leaves the message readable over REST.
type Server struct {
	registry   *Registry
	store      *MessageStore
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	log        *zap.Logger
}

func NewServer(registry *Registry, store *MessageStore, dispatcher *Dispatcher, log *zap.Logger) *Server {
	return &Server{
		registry:   registry,
		store:      store,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin is already restricted by the CORS layer
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// HandleConnection upgrades the request and serves the event loop until the
// peer goes away. The JWT middleware in front of this handler has already
// verified the caller's identity.
func (s *Server) HandleConnection(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	conn, err := s.upgrader.Upgrade(ctx.ResponseWriter(), ctx.Request(), nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(conn)
	go client.writePump(s.log)
	s.readLoop(client, claims.ID)
}

func (s *Server) readLoop(client *Client, authedUserID uint) {
	defer func() {
		s.registry.Deregister(client)
		client.Close()
	}()

	for {
		var frame inboundEvent
		if err := client.conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Event {
		case EventRegister:
			var payload registerPayload
			if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.UserID == 0 {
				client.Push(Event{Event: EventError, Data: "register requires a valid userId"})
				continue
			}
			if payload.UserID != authedUserID {
				client.Push(Event{Event: EventError, Data: "cannot register as another user"})
				continue
			}
			s.registry.Register(payload.UserID, client)

		case EventSendMessage:
			var payload sendMessagePayload
			if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.ReceiverID == 0 || payload.Text == "" {
				client.Push(Event{Event: EventError, Data: "send-message requires senderId, receiverId and text"})
				continue
			}
			if payload.SenderID != authedUserID {
				client.Push(Event{Event: EventError, Data: "sender does not match the authenticated user"})
				continue
			}

			message, err := s.store.Create(payload.SenderID, payload.ReceiverID, payload.Text)
			if err != nil {
				s.log.Error("message create failed",
					zap.Uint("senderID", payload.SenderID),
					zap.Uint("receiverID", payload.ReceiverID),
					zap.Error(err))
				client.Push(Event{Event: EventError, Data: "message could not be stored, please resend"})
				continue
			}
			s.dispatcher.Dispatch(message)

		default:
			client.Push(Event{Event: EventError, Data: "unknown event: " + frame.Event})
		}
	}
}
