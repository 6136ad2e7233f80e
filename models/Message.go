package models

import "gorm.io/gorm"

const (
	MessageStatusUnread = "UNREAD"
	MessageStatusRead   = "READ"
)

// Message is a point-to-point chat message. Rows are append-only and never
// deleted; only Status may change after creation.
type Message struct {
	gorm.Model
	SenderID   uint   `json:"senderID" gorm:"not null;index:idx_messages_sender"`
	ReceiverID uint   `json:"receiverID" gorm:"not null;index:idx_messages_receiver"`
	Text       string `json:"text" gorm:"type:text"`
	Status     string `json:"status" gorm:"size:16;default:UNREAD"`
}
