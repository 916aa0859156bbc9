package event

import (
	"time"

	"gorm.io/gorm"
)

const (
	RegistrationRegistered = "REGISTERED"
	RegistrationCancelled  = "CANCELLED"
)

type Event struct {
	gorm.Model
	ClubID          uint       `gorm:"index;not null" json:"clubId"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `json:"description,omitempty"`
	Location        string     `json:"location,omitempty"`
	StartTime       time.Time  `gorm:"not null" json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	MaxParticipants *int       `json:"maxParticipants"`
	CreatedBy       uint       `json:"createdBy"`
}

// Registration links a user to an event. Cancelling flips the status rather
// than deleting the row, so re-registering creates a fresh REGISTERED row.
type Registration struct {
	gorm.Model
	EventID uint   `gorm:"index;not null" json:"eventId"`
	UserID  uint   `gorm:"index;not null" json:"userId"`
	Status  string `gorm:"default:'REGISTERED'" json:"status"`
}

type CreateEventRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	StartTime       *time.Time `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	MaxParticipants *int       `json:"maxParticipants"`
}

// View augments an event with attendance numbers computed at read time.
type View struct {
	Event
	RegistrationCount int64 `json:"registrationCount"`
	IsRegistered      bool  `json:"isRegistered"`
}
