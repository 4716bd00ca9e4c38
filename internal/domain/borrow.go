package domain

import "time"

type BorrowStatus string

const (
	BorrowBorrowed BorrowStatus = "borrowed"
	BorrowReturned BorrowStatus = "returned"
	BorrowOverdue  BorrowStatus = "overdue"
)

type Borrow struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	BookID           int64      `json:"book_id"`
	BorrowDate       time.Time  `json:"borrow_date"`
	ReturnDate       time.Time  `json:"return_date"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`
	NotificationSent bool       `json:"-"`
	ReminderSent     bool       `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Status derives the borrow state from its dates. It is never stored;
// callers recompute it on every read.
func (b *Borrow) Status(now time.Time) BorrowStatus {
	if b.ActualReturnDate != nil {
		return BorrowReturned
	}
	if b.ReturnDate.Before(now) {
		return BorrowOverdue
	}
	return BorrowBorrowed
}

func (b *Borrow) IsReturned() bool {
	return b.ActualReturnDate != nil
}
