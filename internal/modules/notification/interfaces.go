package notification

import (
	"context"

	"bookhive/internal/domain"
)

// Repository is the persistence layer for notification rows.
type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)
}

// AdminLister is the one user lookup the fan-out needs to address admins.
type AdminLister interface {
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

// Pusher is the live channel. The hub implements it.
type Pusher interface {
	SendToUser(userID int64, message any) bool
}
