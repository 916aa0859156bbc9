package common

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// Context keys
	ContextUserIDKey = "currentUserID"

	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"

	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusRemoved  = "REMOVED"
)

// GetCurrentUserID retrieves the authenticated user's ID from the Gin context.
func GetCurrentUserID(c *gin.Context) (uint, bool) {
	userIDVal, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDVal.(uint)
	return userID, ok
}

// IsActiveAdmin reports whether the user holds an ACTIVE ADMIN membership in
// the club. Queries the memberships table directly so leaf packages can check
// authorization without importing the membership package.
func IsActiveAdmin(db *gorm.DB, clubID, userID uint) (bool, error) {
	var count int64
	err := db.Table("memberships").
		Where("club_id = ? AND user_id = ? AND role = ? AND status = ? AND deleted_at IS NULL",
			clubID, userID, RoleAdmin, StatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsActiveMember reports whether the user holds any ACTIVE membership in the
// club, regardless of role.
func IsActiveMember(db *gorm.DB, clubID, userID uint) (bool, error) {
	var count int64
	err := db.Table("memberships").
		Where("club_id = ? AND user_id = ? AND status = ? AND deleted_at IS NULL",
			clubID, userID, StatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActiveMemberCount counts ACTIVE memberships in a club; used against a club's
// active member limit.
func ActiveMemberCount(db *gorm.DB, clubID uint) (int64, error) {
	var count int64
	err := db.Table("memberships").
		Where("club_id = ? AND status = ? AND deleted_at IS NULL", clubID, StatusActive).
		Count(&count).Error
	return count, err
}

// ActiveAdminUserIDs returns the user ids of every ACTIVE ADMIN of a club,
// optionally excluding one user. Used to fan out notifications.
func ActiveAdminUserIDs(db *gorm.DB, clubID uint, excludeUserID uint) ([]uint, error) {
	var ids []uint
	q := db.Table("memberships").
		Where("club_id = ? AND role = ? AND status = ? AND deleted_at IS NULL",
			clubID, RoleAdmin, StatusActive)
	if excludeUserID != 0 {
		q = q.Where("user_id <> ?", excludeUserID)
	}
	err := q.Pluck("user_id", &ids).Error
	return ids, err
}

// ActiveMemberUserIDs returns the user ids of every ACTIVE member of a club,
// optionally excluding one user.
func ActiveMemberUserIDs(db *gorm.DB, clubID uint, excludeUserID uint) ([]uint, error) {
	var ids []uint
	q := db.Table("memberships").
		Where("club_id = ? AND status = ? AND deleted_at IS NULL", clubID, StatusActive)
	if excludeUserID != 0 {
		q = q.Where("user_id <> ?", excludeUserID)
	}
	err := q.Pluck("user_id", &ids).Error
	return ids, err
}

var ErrNotAuthenticated = errors.New("user ID not found in context")
