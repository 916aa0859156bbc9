package audit

import (
	"time"

	"gorm.io/gorm"
)

type AuditRepository interface {
	// Append writes an entry on the given *gorm.DB, which may be a transaction.
	Append(tx *gorm.DB, e Entry) error
	ListByClub(clubID uint, f ListFilter) ([]AuditLog, error)
	// ListPage returns logs newest-first, starting strictly after the
	// cursor id (a previous page's last-seen id). Zero cursor starts at the top.
	ListPage(clubID uint, afterID uint, pageSize int) ([]AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(tx *gorm.DB, e Entry) error {
	row := AuditLog{
		ClubID:        e.ClubID,
		Action:        e.Action,
		EventCategory: e.EventCategory,
		TargetType:    e.TargetType,
		TargetID:      e.TargetID,
		ActorUserID:   e.ActorUserID,
		CorrelationID: e.CorrelationID,
		Result:        e.Result,
		StatusCode:    e.StatusCode,
	}
	return tx.Create(&row).Error
}

func (r *auditRepository) ListByClub(clubID uint, f ListFilter) ([]AuditLog, error) {
	q := r.db.Model(&AuditLog{}).Where("club_id = ?", clubID)

	if f.EventCategory != "" {
		q = q.Where("event_category = ?", f.EventCategory)
	}
	if f.Result != "" {
		q = q.Where("result = ?", f.Result)
	}
	if f.CorrelationID != "" {
		q = q.Where("correlation_id = ?", f.CorrelationID)
	}
	if f.CreatedAfter != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedAfter); err == nil {
			q = q.Where("created_at >= ?", t)
		}
	}
	if f.CreatedBefore != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedBefore); err == nil {
			q = q.Where("created_at <= ?", t)
		}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var logs []AuditLog
	err := q.Order("created_at DESC, id DESC").Offset(f.Offset).Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *auditRepository) ListPage(clubID uint, afterID uint, pageSize int) ([]AuditLog, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	q := r.db.Model(&AuditLog{}).Where("club_id = ?", clubID)
	// Ids are monotonic, so "older than the cursor row" is just id < cursor.
	if afterID > 0 {
		q = q.Where("id < ?", afterID)
	}
	var logs []AuditLog
	err := q.Order("id DESC").Limit(pageSize).Find(&logs).Error
	return logs, err
}
