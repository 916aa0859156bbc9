package user

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Phone       string     `gorm:"uniqueIndex;not null" json:"phone"`
	Email       *string    `gorm:"uniqueIndex" json:"email,omitempty"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	Nickname    string     `json:"nickname,omitempty"`
	Language    string     `gorm:"default:'en'" json:"language"`
	DateOfBirth string     `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Referrer    string     `json:"referrer,omitempty"`
	LastActive  time.Time  `json:"-"`
}

// Token is one issued bearer token. Both halves of a pair get a row so logout
// can revoke everything and refresh can check revocation server-side.
type Token struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	Type      string    `gorm:"not null" json:"type"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

// Profile is the user as returned by the API.
type Profile struct {
	ID          uint    `json:"id"`
	Phone       string  `json:"phone"`
	Email       *string `json:"email,omitempty"`
	FirstName   string  `json:"firstName,omitempty"`
	LastName    string  `json:"lastName,omitempty"`
	Nickname    string  `json:"nickname,omitempty"`
	Language    string  `json:"language"`
	DateOfBirth string  `json:"dateOfBirth,omitempty"`
	Gender      string  `json:"gender,omitempty"`
	Referrer    string  `json:"referrer,omitempty"`
}

// FilterUserRecord maps a stored user onto its API profile.
func FilterUserRecord(u *User) Profile {
	return Profile{
		ID:          u.ID,
		Phone:       u.Phone,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Nickname:    u.Nickname,
		Language:    u.Language,
		DateOfBirth: u.DateOfBirth,
		Gender:      u.Gender,
		Referrer:    u.Referrer,
	}
}
