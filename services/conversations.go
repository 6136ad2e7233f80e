package services

import (
	"errors"
	"time"

	"github.com/samber/lo"
	"github.com/tangerineArc/campus-roots-backend/chat"
	"github.com/tangerineArc/campus-roots-backend/models"
	"gorm.io/gorm"
)

const defaultAvatar = "/default-avatar.png"

// ConversationService shapes conversation summaries and message histories for
// presentation. It owns no state of its own; every read recomputes from the
// message store.
type ConversationService struct {
	db    *gorm.DB
	store *chat.MessageStore
}

func NewConversationService(db *gorm.DB, store *chat.MessageStore) *ConversationService {
	return &ConversationService{db: db, store: store}
}

// ConversationSummary is one row of a user's conversation list.
type ConversationSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	LastText string `json:"lastText"`
	Time     string `json:"time"`
	Image    string `json:"image"`
	Verified bool   `json:"verified"`
}

// DisplayMessage is one message of a conversation timeline, labeled for the
// requesting user.
type DisplayMessage struct {
	ID     uint   `json:"id"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Time   string `json:"time"`
}

// SummariesFor lists the user's conversations, most recent first. A user with
// no conversations gets an empty list.
func (s *ConversationService) SummariesFor(userID uint) ([]ConversationSummary, error) {
	entries, err := s.store.ConversationsFor(userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []ConversationSummary{}, nil
	}

	counterpartIDs := lo.Map(entries, func(entry chat.ConversationEntry, _ int) uint {
		return entry.CounterpartID
	})

	var counterparts []models.User
	if err := s.db.Where("id IN ?", counterpartIDs).Find(&counterparts).Error; err != nil {
		return nil, err
	}
	usersByID := lo.KeyBy(counterparts, func(user models.User) uint { return user.ID })

	summaries := make([]ConversationSummary, 0, len(entries))
	for _, entry := range entries {
		counterpart := usersByID[entry.CounterpartID]

		image := counterpart.AvatarURL
		if image == "" {
			image = defaultAvatar
		}

		summaries = append(summaries, ConversationSummary{
			ID:       entry.CounterpartID,
			Name:     counterpart.Name,
			LastText: entry.LastMessage.Text,
			Time:     formatClock(entry.LastMessage.CreatedAt),
			Image:    image,
			Verified: counterpart.Role == models.RoleAlumnus,
		})
	}
	return summaries, nil
}

// HistoryFor returns the full ordered timeline between the user and the
// counterpart, the requester's own messages labeled "You". An empty history
// is a valid outcome; no conversation needs to exist beforehand.
func (s *ConversationService) HistoryFor(userID, otherUserID uint) ([]DisplayMessage, error) {
	messages, err := s.store.FindBetween(userID, otherUserID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return []DisplayMessage{}, nil
	}

	var counterpart models.User
	if err := s.db.First(&counterpart, otherUserID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return lo.Map(messages, func(message models.Message, _ int) DisplayMessage {
		sender := "You"
		if message.SenderID != userID {
			sender = counterpart.Name
		}
		return DisplayMessage{
			ID:     message.ID,
			Sender: sender,
			Text:   message.Text,
			Time:   formatClock(message.CreatedAt),
		}
	}), nil
}

// formatClock renders the 12-hour wall-clock label shown next to messages.
func formatClock(t time.Time) string {
	return t.Format("03:04 PM")
}
