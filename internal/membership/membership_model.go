package membership

import "gorm.io/gorm"

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"

	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusRemoved  = "REMOVED"
)

// Membership is one (user, club) pair. AdminNotes is only ever serialized on
// the admin-facing views.
type Membership struct {
	gorm.Model
	ClubID             uint   `gorm:"index:idx_membership_pair;not null" json:"clubId"`
	UserID             uint   `gorm:"index:idx_membership_pair;not null" json:"userId"`
	Role               string `gorm:"default:'MEMBER'" json:"role"`
	Status             string `gorm:"default:'ACTIVE'" json:"status"`
	ShowPhoneToMembers bool   `gorm:"default:false" json:"showPhoneToMembers"`
	ShowEmailToMembers bool   `gorm:"default:false" json:"showEmailToMembers"`
	AdminNotes         string `json:"-"`
}

type UpdateSettingsRequest struct {
	ShowPhoneToMembers *bool `json:"showPhoneToMembers,omitempty"`
	ShowEmailToMembers *bool `json:"showEmailToMembers,omitempty"`
}

type AdminUpdateMemberRequest struct {
	Role       *string `json:"role,omitempty" binding:"omitempty,oneof=ADMIN MEMBER"`
	Status     *string `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE INACTIVE REMOVED"`
	AdminNotes *string `json:"adminNotes,omitempty"`
}

// MemberContact is the per-member user summary with visibility flags applied.
type MemberContact struct {
	ID        uint    `json:"id"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	Nickname  string  `json:"nickname,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
}

type MemberView struct {
	Membership
	AdminNotes string         `json:"adminNotes,omitempty"`
	User       *MemberContact `json:"user,omitempty"`
}
