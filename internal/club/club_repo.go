package club

import (
	"strings"

	"gorm.io/gorm"
)

type ClubRepository interface {
	Create(c *Club) error
	Update(c *Club) error
	GetByID(id uint) (*Club, error)
	ListByIDs(ids []uint) ([]Club, error)
	// Search returns clubs matching q in name/description, restricted to the
	// user's clubs plus discoverable apply-to-join clubs.
	Search(q string, memberClubIDs []uint) ([]Club, error)
	// DeleteCascade removes the club and every club-scoped record inside one
	// transaction. Other clubs' records are untouched.
	DeleteCascade(clubID uint, beforeDelete func(tx *gorm.DB) error) error
}

type clubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) Create(c *Club) error {
	return r.db.Create(c).Error
}

func (r *clubRepository) Update(c *Club) error {
	return r.db.Save(c).Error
}

func (r *clubRepository) GetByID(id uint) (*Club, error) {
	var c Club
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clubRepository) ListByIDs(ids []uint) ([]Club, error) {
	if len(ids) == 0 {
		return []Club{}, nil
	}
	var clubs []Club
	err := r.db.Where("id IN ?", ids).Order("created_at ASC").Find(&clubs).Error
	return clubs, err
}

func (r *clubRepository) Search(q string, memberClubIDs []uint) ([]Club, error) {
	var clubs []Club
	if err := r.db.Order("created_at ASC").Find(&clubs).Error; err != nil {
		return nil, err
	}

	member := make(map[uint]bool, len(memberClubIDs))
	for _, id := range memberClubIDs {
		member[id] = true
	}

	q = strings.ToLower(q)
	out := make([]Club, 0, len(clubs))
	for _, c := range clubs {
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			continue
		}
		if member[c.ID] {
			out = append(out, c)
			continue
		}
		if c.JoinMode == JoinModeApplyToJoin && c.IsAcceptingNewMembers {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *clubRepository) DeleteCascade(clubID uint, beforeDelete func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if beforeDelete != nil {
			if err := beforeDelete(tx); err != nil {
				return err
			}
		}

		// Raw exec over table names keeps this package free of imports on
		// every other domain package.
		statements := []string{
			"UPDATE memberships SET deleted_at = CURRENT_TIMESTAMP WHERE club_id = ? AND deleted_at IS NULL",
			"UPDATE invites SET deleted_at = CURRENT_TIMESTAMP WHERE club_id = ? AND deleted_at IS NULL",
			"UPDATE applications SET deleted_at = CURRENT_TIMESTAMP WHERE club_id = ? AND deleted_at IS NULL",
			"UPDATE registrations SET deleted_at = CURRENT_TIMESTAMP WHERE event_id IN (SELECT id FROM events WHERE club_id = ?) AND deleted_at IS NULL",
			"UPDATE events SET deleted_at = CURRENT_TIMESTAMP WHERE club_id = ? AND deleted_at IS NULL",
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt, clubID).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&Club{}, clubID).Error
	})
}
