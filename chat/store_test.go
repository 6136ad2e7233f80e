package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tangerineArc/campus-roots-backend/models"
	"gorm.io/gorm"
)

func TestMessageStoreCreatePersistsUnread(t *testing.T) {
	store := NewMessageStore(newTestDB(t))

	message, err := store.Create(1, 2, "hi")
	require.NoError(t, err)
	assert.NotZero(t, message.ID)
	assert.Equal(t, models.MessageStatusUnread, message.Status)

	// The message is immediately visible in both directions
	forward, err := store.FindBetween(1, 2)
	require.NoError(t, err)
	require.Len(t, forward, 1)
	assert.Equal(t, "hi", forward[0].Text)

	backward, err := store.FindBetween(2, 1)
	require.NoError(t, err)
	require.Len(t, backward, 1)
}

func TestMessageStoreCreateReportsStoreUnavailable(t *testing.T) {
	db := newTestDB(t)
	store := NewMessageStore(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = store.Create(1, 2, "hi")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestMessageStoreFindBetweenOrdersByCreation(t *testing.T) {
	db := newTestDB(t)
	store := NewMessageStore(db)

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	seedMessage(t, db, 1, 2, "first", base)
	seedMessage(t, db, 2, 1, "second", base.Add(time.Minute))
	seedMessage(t, db, 1, 3, "unrelated", base.Add(2*time.Minute))
	seedMessage(t, db, 1, 2, "third", base.Add(3*time.Minute))

	messages, err := store.FindBetween(1, 2)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, []string{"first", "second", "third"}, texts(messages))
}

func TestMessageStoreConversationsForOrdersByRecency(t *testing.T) {
	db := newTestDB(t)
	store := NewMessageStore(db)

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	seedMessage(t, db, 1, 2, "to bob", base)
	seedMessage(t, db, 3, 1, "from carol", base.Add(time.Hour))

	entries, err := store.ConversationsFor(1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// carol's conversation is more recent and sorts first
	assert.Equal(t, uint(3), entries[0].CounterpartID)
	assert.Equal(t, "from carol", entries[0].LastMessage.Text)
	assert.Equal(t, uint(2), entries[1].CounterpartID)
}

func TestMessageStoreConversationsForKeepsOnlyLatestPerCounterpart(t *testing.T) {
	db := newTestDB(t)
	store := NewMessageStore(db)

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	seedMessage(t, db, 1, 2, "old", base)
	seedMessage(t, db, 2, 1, "newer", base.Add(time.Minute))
	seedMessage(t, db, 1, 2, "newest", base.Add(2*time.Minute))

	entries, err := store.ConversationsFor(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "newest", entries[0].LastMessage.Text)
}

func TestMessageStoreConversationsForTieBreaksOnCounterpartID(t *testing.T) {
	db := newTestDB(t)
	store := NewMessageStore(db)

	ts := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	seedMessage(t, db, 9, 1, "from nine", ts)
	seedMessage(t, db, 4, 1, "from four", ts)

	entries, err := store.ConversationsFor(1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(4), entries[0].CounterpartID)
	assert.Equal(t, uint(9), entries[1].CounterpartID)
}

func seedMessage(t *testing.T, db *gorm.DB, senderID, receiverID uint, text string, at time.Time) {
	t.Helper()
	message := models.Message{
		Model:      gorm.Model{CreatedAt: at},
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Status:     models.MessageStatusUnread,
	}
	require.NoError(t, db.Create(&message).Error)
}

func texts(messages []models.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Text)
	}
	return out
}
