package application

import "gorm.io/gorm"

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"

	DenialReasonOther = "OTHER"
)

// Application is one user's request to join an APPLY_TO_JOIN club. PENDING is
// the only non-terminal status. DenialNotes are admin-facing and never
// serialized on the applicant's own views.
type Application struct {
	gorm.Model
	ClubID       uint   `gorm:"index;not null" json:"clubId"`
	UserID       uint   `gorm:"index;not null" json:"userId"`
	Status       string `gorm:"default:'PENDING'" json:"status"`
	DenialReason string `json:"denialReason,omitempty"`
	DenialNotes  string `json:"-"`
}

type RejectRequest struct {
	DenialReason string `json:"denialReason"`
	DenialNotes  string `json:"denialNotes"`
}

// ApplicantSummary is the contact block admins see next to each application.
type ApplicantSummary struct {
	ID        uint    `json:"id"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email,omitempty"`
}

// AdminView re-exposes DenialNotes for the admin listing.
type AdminView struct {
	Application
	DenialNotes string            `json:"denialNotes,omitempty"`
	User        *ApplicantSummary `json:"user,omitempty"`
}
