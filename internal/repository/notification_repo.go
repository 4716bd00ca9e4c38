package repository

import (
	"context"
	"time"

	"bookhive/internal/domain"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	UserID        int64     `gorm:"column:user_id;index:idx_notifications_user_read"`
	Title         string    `gorm:"column:title"`
	Message       string    `gorm:"column:message"`
	Type          string    `gorm:"column:type;size:64"`
	Read          bool      `gorm:"column:read;index:idx_notifications_user_read"`
	BorrowID      *int64    `gorm:"column:borrow_id"`
	BookRequestID *int64    `gorm:"column:book_request_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) domain.Notification {
	return domain.Notification{
		ID:            m.ID,
		UserID:        m.UserID,
		Title:         m.Title,
		Message:       m.Message,
		Type:          domain.NotificationType(m.Type),
		Read:          m.Read,
		BorrowID:      m.BorrowID,
		BookRequestID: m.BookRequestID,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		UserID:        n.UserID,
		Title:         n.Title,
		Message:       n.Message,
		Type:          string(n.Type),
		Read:          n.Read,
		BorrowID:      n.BorrowID,
		BookRequestID: n.BookRequestID,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*n = toDomainNotification(m)
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []notificationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips the read flag. Marking an already-read notification is a
// no-op, not an error.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	var m notificationModel
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if m.Read {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ?", id).
		Update("read", true).Error
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// DeleteAllForUser hard-deletes every notification a user owns ("clear all").
func (r *NotificationRepository) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&notificationModel{})
	return res.RowsAffected, res.Error
}
