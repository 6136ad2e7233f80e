package models

import "gorm.io/gorm"

const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
)

// Connection links two users. The requester initiates; the addressee accepts.
type Connection struct {
	gorm.Model
	RequesterID uint   `json:"requesterID" gorm:"not null;index"`
	AddresseeID uint   `json:"addresseeID" gorm:"not null;index"`
	Status      string `json:"status" gorm:"size:16;default:pending;index"`
}
