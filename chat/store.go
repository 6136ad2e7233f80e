package chat

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tangerineArc/campus-roots-backend/models"
	"gorm.io/gorm"
)

// ErrStoreUnavailable wraps persistence failures so callers can report a
// storage outage without leaking driver details to clients.
var ErrStoreUnavailable = errors.New("message store unavailable")

// MessageStore is the durable record of point-to-point messages.
type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Create persists a new message with status UNREAD. The row is durable before
// Create returns; delivery happens separately and never mutates it.
func (s *MessageStore) Create(senderID, receiverID uint, text string) (*models.Message, error) {
	message := models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Status:     models.MessageStatusUnread,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &message, nil
}

// FindBetween returns every message exchanged between the two users in either
// direction, oldest first. Equal timestamps keep insertion order.
func (s *MessageStore) FindBetween(userID, otherUserID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return messages, nil
}

// ConversationEntry pairs a counterpart with the latest message exchanged.
type ConversationEntry struct {
	CounterpartID uint
	LastMessage   models.Message
}

// ConversationsFor returns one entry per counterpart the user has any message
// with, most recent conversation first. Conversations whose last messages
// share a timestamp order by ascending counterpart ID.
func (s *MessageStore) ConversationsFor(userID uint) ([]ConversationEntry, error) {
	var messages []models.Message
	err := s.db.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	entries := make([]ConversationEntry, 0)
	seen := make(map[uint]bool)
	for _, message := range messages {
		counterpartID := message.SenderID
		if counterpartID == userID {
			counterpartID = message.ReceiverID
		}
		if seen[counterpartID] {
			continue
		}
		seen[counterpartID] = true
		entries = append(entries, ConversationEntry{
			CounterpartID: counterpartID,
			LastMessage:   message,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ti := entries[i].LastMessage.CreatedAt
		tj := entries[j].LastMessage.CreatedAt
		if ti.Equal(tj) {
			return entries[i].CounterpartID < entries[j].CounterpartID
		}
		return ti.After(tj)
	})

	return entries, nil
}
