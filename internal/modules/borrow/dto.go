package borrow

import (
	"time"

	"bookhive/internal/domain"
)

type BorrowBookRequest struct {
	BookID     int64     `json:"book_id" binding:"required"`
	ReturnDate time.Time `json:"return_date" binding:"required"`
}

// BorrowDetails is a borrow joined with its book and annotated with the
// derived status.
type BorrowDetails struct {
	ID               int64               `json:"id"`
	BookID           int64               `json:"book_id"`
	BookTitle        string              `json:"book_title"`
	Author           string              `json:"author"`
	BorrowDate       time.Time           `json:"borrow_date"`
	ReturnDate       time.Time           `json:"return_date"`
	ActualReturnDate *time.Time          `json:"actual_return_date,omitempty"`
	Status           domain.BorrowStatus `json:"status"`
}
