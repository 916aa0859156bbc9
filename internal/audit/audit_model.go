package audit

import "gorm.io/gorm"

const (
	CategoryClub   = "CLUB"
	CategoryMember = "MEMBER"
	CategoryEvent  = "EVENT"

	ResultSuccess = "SUCCESS"
	ResultFailure = "FAILURE"
)

// AuditLog is an append-only record of a privileged action, scoped to a club.
type AuditLog struct {
	gorm.Model
	ClubID        uint   `gorm:"index;not null" json:"clubId"`
	Action        string `gorm:"not null" json:"action"`
	EventCategory string `gorm:"index" json:"eventCategory"`
	TargetType    string `json:"targetType,omitempty"`
	TargetID      uint   `json:"targetId,omitempty"`
	ActorUserID   uint   `json:"actorUserId,omitempty"`
	CorrelationID string `gorm:"index" json:"correlationId,omitempty"`
	Result        string `json:"result"`
	StatusCode    int    `json:"statusCode"`
}

// Entry carries the caller-supplied fields of a log append.
type Entry struct {
	ClubID        uint
	Action        string
	EventCategory string
	TargetType    string
	TargetID      uint
	ActorUserID   uint
	CorrelationID string
	Result        string
	StatusCode    int
}

// ListFilter narrows the offset/limit listing.
type ListFilter struct {
	EventCategory string
	Result        string
	CorrelationID string
	CreatedAfter  string
	CreatedBefore string
	Offset        int
	Limit         int
}

type PageRequest struct {
	PageSize  int    `json:"pageSize" binding:"omitempty,gte=1,lte=200"`
	PageToken string `json:"pageToken"`
}

type PageResponse struct {
	Items         []AuditLog `json:"items"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}
