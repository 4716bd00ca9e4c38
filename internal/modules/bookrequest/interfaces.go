package bookrequest

import (
	"context"

	"bookhive/internal/domain"
	"bookhive/internal/repository"
)

type RequestRepository interface {
	Create(ctx context.Context, req *domain.BookRequest) error
	GetByID(ctx context.Context, id int64) (*domain.BookRequest, error)
	ListAll(ctx context.Context) ([]repository.RequestRow, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.BookRequest, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus, adminComment string) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier is the best-effort fan-out fired after each lifecycle write commits.
type Notifier interface {
	NotifyAdminsRequestCreated(ctx context.Context, requestID int64, title, author, requesterName string)
	NotifyRequestApproved(ctx context.Context, requester *domain.User, requestID int64, title string)
	NotifyRequestRejected(ctx context.Context, requester *domain.User, requestID int64, title, comment string)
	NotifyAcquisitionStarted(ctx context.Context, requester *domain.User, requestID int64, title string)
	NotifyAcquisitionCompleted(ctx context.Context, requester *domain.User, requestID int64, title string)
}
