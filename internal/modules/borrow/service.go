package borrow

import (
	"context"
	"errors"
	"time"

	"bookhive/internal/domain"
	"bookhive/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	borrows BorrowRepository
	books   BookReader
	users   UserReader
	notifs  Notifier
}

func NewService(borrows BorrowRepository, books BookReader, users UserReader, notifs Notifier) *Service {
	return &Service{
		borrows: borrows,
		books:   books,
		users:   users,
		notifs:  notifs,
	}
}

// Borrow lends one copy of a book to a user. The availability check and the
// decrement run in a single database transaction inside the repository; by
// the time the fan-out fires the lend is committed.
func (s *Service) Borrow(ctx context.Context, userID, bookID int64, returnDate time.Time) (*domain.Borrow, error) {
	if !returnDate.After(time.Now()) {
		return nil, ErrValidation
	}

	b, err := s.borrows.BorrowBook(ctx, userID, bookID, returnDate)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrBookNotFound
		case errors.Is(err, repository.ErrBookUnavailable):
			return nil, ErrNotAvailable
		}
		return nil, err
	}

	if s.notifs != nil {
		book, bookErr := s.books.GetByID(ctx, bookID)
		if bookErr == nil {
			s.notifs.NotifyBorrowConfirmed(ctx, userID, b.ID, book.Title)

			borrower, userErr := s.users.GetByID(ctx, userID)
			if userErr == nil {
				s.notifs.NotifyAdminsBookBorrowed(ctx, b.ID, book.Title, borrower.FullName(), b.ReturnDate)
			}
		}
	}

	return b, nil
}

// Return records a return and puts the copy back on the shelf, atomically.
func (s *Service) Return(ctx context.Context, borrowID int64) (*domain.Borrow, error) {
	b, err := s.borrows.ReturnBook(ctx, borrowID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrBorrowNotFound
		case errors.Is(err, repository.ErrAlreadyReturned):
			return nil, ErrAlreadyReturned
		}
		return nil, err
	}

	if s.notifs != nil {
		book, bookErr := s.books.GetByID(ctx, b.BookID)
		if bookErr == nil {
			s.notifs.NotifyBookReturned(ctx, b.UserID, b.ID, book.Title)

			borrower, userErr := s.users.GetByID(ctx, b.UserID)
			if userErr == nil {
				s.notifs.NotifyAdminsBookReturned(ctx, b.ID, book.Title, borrower.FullName())
			}
		}
	}

	return b, nil
}

// ListUserBorrows returns a user's borrows with the status derived against
// the current clock on every call.
func (s *Service) ListUserBorrows(ctx context.Context, userID int64) ([]BorrowDetails, error) {
	rows, err := s.borrows.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]BorrowDetails, 0, len(rows))
	for _, r := range rows {
		out = append(out, BorrowDetails{
			ID:               r.Borrow.ID,
			BookID:           r.Borrow.BookID,
			BookTitle:        r.BookTitle,
			Author:           r.Author,
			BorrowDate:       r.Borrow.BorrowDate,
			ReturnDate:       r.Borrow.ReturnDate,
			ActualReturnDate: r.Borrow.ActualReturnDate,
			Status:           r.Borrow.Status(now),
		})
	}
	return out, nil
}
