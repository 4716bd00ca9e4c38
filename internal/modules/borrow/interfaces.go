package borrow

import (
	"context"
	"time"

	"bookhive/internal/domain"
	"bookhive/internal/repository"
)

// BorrowRepository covers the transactional lend/return operations plus reads.
type BorrowRepository interface {
	BorrowBook(ctx context.Context, userID, bookID int64, returnDate time.Time) (*domain.Borrow, error)
	ReturnBook(ctx context.Context, borrowID int64) (*domain.Borrow, error)
	ListByUser(ctx context.Context, userID int64) ([]repository.UserBorrowRow, error)
}

type BookReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier is the post-commit fan-out. All methods are best-effort and return
// nothing; the borrow transaction has already committed when they run.
type Notifier interface {
	NotifyBorrowConfirmed(ctx context.Context, userID, borrowID int64, bookTitle string)
	NotifyAdminsBookBorrowed(ctx context.Context, borrowID int64, bookTitle, borrowerName string, due time.Time)
	NotifyBookReturned(ctx context.Context, userID, borrowID int64, bookTitle string)
	NotifyAdminsBookReturned(ctx context.Context, borrowID int64, bookTitle, borrowerName string)
}
