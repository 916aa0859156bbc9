package membership

import (
	"errors"

	"gorm.io/gorm"
)

type MembershipRepository interface {
	Create(m *Membership) error
	Update(m *Membership) error
	GetByClubAndUser(clubID, userID uint) (*Membership, error)
	GetActiveAdmin(clubID, userID uint) (*Membership, error)
	ListByClub(clubID uint) ([]Membership, error)
	CountOtherActiveAdmins(clubID, excludeUserID uint) (int64, error)

	// CreateOrReactivate flips an existing pair back to an ACTIVE MEMBER or
	// inserts a fresh row. Runs on whatever *gorm.DB it is given so callers
	// can place it inside a transaction.
	CreateOrReactivate(tx *gorm.DB, clubID, userID uint) (*Membership, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(m *Membership) error {
	return r.db.Create(m).Error
}

func (r *membershipRepository) Update(m *Membership) error {
	return r.db.Save(m).Error
}

func (r *membershipRepository) GetByClubAndUser(clubID, userID uint) (*Membership, error) {
	var m Membership
	if err := r.db.Where("club_id = ? AND user_id = ?", clubID, userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) GetActiveAdmin(clubID, userID uint) (*Membership, error) {
	var m Membership
	err := r.db.Where("club_id = ? AND user_id = ? AND role = ? AND status = ?",
		clubID, userID, RoleAdmin, StatusActive).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) ListByClub(clubID uint) ([]Membership, error) {
	var members []Membership
	err := r.db.Where("club_id = ?", clubID).Order("created_at ASC").Find(&members).Error
	return members, err
}

func (r *membershipRepository) CountOtherActiveAdmins(clubID, excludeUserID uint) (int64, error) {
	var count int64
	err := r.db.Model(&Membership{}).
		Where("club_id = ? AND role = ? AND status = ? AND user_id <> ?",
			clubID, RoleAdmin, StatusActive, excludeUserID).
		Count(&count).Error
	return count, err
}

func (r *membershipRepository) CreateOrReactivate(tx *gorm.DB, clubID, userID uint) (*Membership, error) {
	var m Membership
	err := tx.Where("club_id = ? AND user_id = ?", clubID, userID).First(&m).Error
	if err == nil {
		m.Status = StatusActive
		m.Role = RoleMember
		if err := tx.Save(&m).Error; err != nil {
			return nil, err
		}
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m = Membership{
		ClubID: clubID,
		UserID: userID,
		Role:   RoleMember,
		Status: StatusActive,
	}
	if err := tx.Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
