package invite

import "gorm.io/gorm"

type InviteRepository interface {
	Create(i *Invite) error
	Update(i *Invite) error
	GetByToken(token string) (*Invite, error)
	GetByIDAndClub(id, clubID uint) (*Invite, error)
	ListByClub(clubID uint) ([]Invite, error)
	// RevokeActiveGeneral flips every ACTIVE untargeted invite of the club to
	// REVOKED, keeping the one-general-invite-per-club invariant.
	RevokeActiveGeneral(tx *gorm.DB, clubID uint) error
}

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(i *Invite) error {
	return r.db.Create(i).Error
}

func (r *inviteRepository) Update(i *Invite) error {
	return r.db.Save(i).Error
}

func (r *inviteRepository) GetByToken(token string) (*Invite, error) {
	var i Invite
	if err := r.db.Where("token = ?", token).First(&i).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *inviteRepository) GetByIDAndClub(id, clubID uint) (*Invite, error) {
	var i Invite
	if err := r.db.Where("id = ? AND club_id = ?", id, clubID).First(&i).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *inviteRepository) ListByClub(clubID uint) ([]Invite, error) {
	var invites []Invite
	err := r.db.Where("club_id = ?", clubID).Order("created_at DESC").Find(&invites).Error
	return invites, err
}

func (r *inviteRepository) RevokeActiveGeneral(tx *gorm.DB, clubID uint) error {
	return tx.Model(&Invite{}).
		Where("club_id = ? AND status = ? AND target_phone IS NULL AND target_email IS NULL",
			clubID, StatusActive).
		Update("status", StatusRevoked).Error
}
