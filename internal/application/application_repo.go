package application

import "gorm.io/gorm"

type ApplicationRepository interface {
	Create(a *Application) error
	GetByIDAndClub(id, clubID uint) (*Application, error)
	GetPendingByIDAndUser(id, userID uint) (*Application, error)
	ListByClub(clubID uint) ([]Application, error)
	ListByUser(userID uint) ([]Application, error)
	GetLatestByClubAndUser(clubID, userID uint) (*Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(a *Application) error {
	return r.db.Create(a).Error
}

func (r *applicationRepository) GetByIDAndClub(id, clubID uint) (*Application, error) {
	var a Application
	if err := r.db.Where("id = ? AND club_id = ?", id, clubID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *applicationRepository) GetPendingByIDAndUser(id, userID uint) (*Application, error) {
	var a Application
	err := r.db.Where("id = ? AND user_id = ? AND status = ?", id, userID, StatusPending).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *applicationRepository) ListByClub(clubID uint) ([]Application, error) {
	var apps []Application
	err := r.db.Where("club_id = ?", clubID).Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) ListByUser(userID uint) ([]Application, error) {
	var apps []Application
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) GetLatestByClubAndUser(clubID, userID uint) (*Application, error) {
	var a Application
	err := r.db.Where("club_id = ? AND user_id = ?", clubID, userID).
		Order("created_at DESC").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
