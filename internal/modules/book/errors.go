package book

import "errors"

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrDuplicateISBN  = errors.New("a book with this ISBN already exists")
	ErrQuantityTooLow = errors.New("quantity cannot drop below the number of borrowed copies")
)
