package notification

import "gorm.io/gorm"

type NotificationRepository interface {
	// Notify inserts records on the given *gorm.DB so callers can batch them
	// into the same transaction as the action that triggered them.
	Notify(tx *gorm.DB, userIDs []uint, n Notification) error
	ListByUser(userID uint) ([]Notification, error)
	MarkAllRead(userID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Notify(tx *gorm.DB, userIDs []uint, n Notification) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]Notification, 0, len(userIDs))
	for _, id := range userIDs {
		row := n
		row.UserID = id
		rows = append(rows, row)
	}
	return tx.Create(&rows).Error
}

func (r *notificationRepository) ListByUser(userID uint) ([]Notification, error) {
	var notifications []Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkAllRead(userID uint) error {
	return r.db.Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
