package club

import (
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/internal/models"
)

const (
	TypeCasual      = "CASUAL"
	TypeCompetitive = "COMPETITIVE"

	JoinModeInviteOnly  = "INVITE_ONLY"
	JoinModeApplyToJoin = "APPLY_TO_JOIN"
)

type Club struct {
	gorm.Model
	Name                  string             `gorm:"not null" json:"name"`
	Description           string             `json:"description,omitempty"`
	Type                  string             `gorm:"default:'CASUAL'" json:"type"`
	JoinMode              string             `gorm:"default:'APPLY_TO_JOIN'" json:"joinMode"`
	IsAcceptingNewMembers bool               `gorm:"default:true" json:"isAcceptingNewMembers"`
	ActiveMemberLimit     *int               `json:"activeMemberLimit"`
	LevelsAccepted        models.StringSlice `gorm:"type:json" json:"levelsAccepted"`
	Location              models.JSONMap     `gorm:"type:json" json:"location,omitempty"`
	Badge                 string             `json:"badge,omitempty"`
	Rules                 string             `json:"rules,omitempty"`
}

type CreateClubRequest struct {
	Name                  string                 `json:"name" binding:"required"`
	Description           string                 `json:"description"`
	Type                  string                 `json:"type" binding:"omitempty,oneof=CASUAL COMPETITIVE"`
	JoinMode              string                 `json:"joinMode" binding:"omitempty,oneof=INVITE_ONLY APPLY_TO_JOIN"`
	IsAcceptingNewMembers *bool                  `json:"isAcceptingNewMembers"`
	ActiveMemberLimit     *int                   `json:"activeMemberLimit" binding:"omitempty,gte=1"`
	LevelsAccepted        []string               `json:"levelsAccepted"`
	Location              map[string]interface{} `json:"location"`
	Badge                 string                 `json:"badge"`
	Rules                 string                 `json:"rules"`
}

type UpdateClubRequest struct {
	Name                  *string                 `json:"name" binding:"omitempty,min=1"`
	Description           *string                 `json:"description"`
	Type                  *string                 `json:"type" binding:"omitempty,oneof=CASUAL COMPETITIVE"`
	JoinMode              *string                 `json:"joinMode" binding:"omitempty,oneof=INVITE_ONLY APPLY_TO_JOIN"`
	IsAcceptingNewMembers *bool                   `json:"isAcceptingNewMembers"`
	ActiveMemberLimit     *int                    `json:"activeMemberLimit"`
	LevelsAccepted        *[]string               `json:"levelsAccepted"`
	Location              *map[string]interface{} `json:"location"`
	Badge                 *string                 `json:"badge"`
	Rules                 *string                 `json:"rules"`
}
