package borrow

import "errors"

var (
	ErrValidation      = errors.New("invalid borrow request")
	ErrBookNotFound    = errors.New("book not found")
	ErrNotAvailable    = errors.New("book is not available")
	ErrBorrowNotFound  = errors.New("borrow record not found")
	ErrAlreadyReturned = errors.New("book already returned")
)
