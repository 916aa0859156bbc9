package invite

import (
	"time"

	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/internal/club"
)

const (
	StatusActive   = "ACTIVE"
	StatusConsumed = "CONSUMED"
	StatusRevoked  = "REVOKED"
	StatusExpired  = "EXPIRED"
)

// Invite is a join capability. The token is unguessable and is the only
// credential needed to preview the invite; a targeted invite additionally
// binds to one phone or email.
type Invite struct {
	gorm.Model
	ClubID      uint      `gorm:"index;not null" json:"clubId"`
	Token       string    `gorm:"uniqueIndex;not null" json:"token"`
	TargetPhone *string   `json:"targetPhone,omitempty"`
	TargetEmail *string   `json:"targetEmail,omitempty"`
	Status      string    `gorm:"default:'ACTIVE'" json:"status"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// IsTargeted reports whether the invite is bound to a specific phone or email.
func (i *Invite) IsTargeted() bool {
	return i.TargetPhone != nil || i.TargetEmail != nil
}

type CreateInviteRequest struct {
	TargetPhone string `json:"targetPhone" binding:"omitempty"`
	TargetEmail string `json:"targetEmail" binding:"omitempty,email"`
}

// PreviewResponse is the public view of an invite link.
type PreviewResponse struct {
	Club   ClubSummary   `json:"club"`
	Invite InviteSummary `json:"invite"`
}

type ClubSummary struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	Badge       string   `json:"badge,omitempty"`
	Levels      []string `json:"levelsAccepted"`
}

type InviteSummary struct {
	ID          uint      `json:"id"`
	Token       string    `json:"token"`
	TargetPhone *string   `json:"targetPhone,omitempty"`
	TargetEmail *string   `json:"targetEmail,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func summarizeClub(c *club.Club) ClubSummary {
	return ClubSummary{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
		Badge:       c.Badge,
		Levels:      c.LevelsAccepted,
	}
}
