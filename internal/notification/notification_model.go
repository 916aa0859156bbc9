package notification

import "gorm.io/gorm"

const (
	TypeMemberJoined        = "MEMBER_JOINED"
	TypeApplicationReceived = "APPLICATION_RECEIVED"
	TypeApplicationApproved = "APPLICATION_APPROVED"
	TypeApplicationRejected = "APPLICATION_REJECTED"
	TypeEventCreated        = "EVENT_CREATED"
)

// Notification is one per-user outbox record.
type Notification struct {
	gorm.Model
	UserID  uint   `gorm:"index;not null" json:"userId"`
	Type    string `gorm:"not null" json:"type"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	ClubID  *uint  `json:"clubId,omitempty"`
	LinkURL string `json:"linkUrl,omitempty"`
	Read    bool   `gorm:"default:false" json:"read"`
}
