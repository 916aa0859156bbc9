package event

import "gorm.io/gorm"

type EventRepository interface {
	Create(e *Event) error
	GetByIDAndClub(id, clubID uint) (*Event, error)
	ListByClub(clubID uint) ([]Event, error)
	CountRegistered(eventID uint) (int64, error)
	GetActiveRegistration(eventID, userID uint) (*Registration, error)
	CreateRegistration(r *Registration) error
	UpdateRegistration(r *Registration) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(e *Event) error {
	return r.db.Create(e).Error
}

func (r *eventRepository) GetByIDAndClub(id, clubID uint) (*Event, error) {
	var e Event
	if err := r.db.Where("id = ? AND club_id = ?", id, clubID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) ListByClub(clubID uint) ([]Event, error) {
	var events []Event
	err := r.db.Where("club_id = ?", clubID).Order("start_time ASC").Find(&events).Error
	return events, err
}

func (r *eventRepository) CountRegistered(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&Registration{}).
		Where("event_id = ? AND status = ?", eventID, RegistrationRegistered).
		Count(&count).Error
	return count, err
}

func (r *eventRepository) GetActiveRegistration(eventID, userID uint) (*Registration, error) {
	var reg Registration
	err := r.db.Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, RegistrationRegistered).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *eventRepository) CreateRegistration(reg *Registration) error {
	return r.db.Create(reg).Error
}

func (r *eventRepository) UpdateRegistration(reg *Registration) error {
	return r.db.Save(reg).Error
}
