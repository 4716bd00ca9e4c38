package domain

import "time"

type Book struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	ISBN              string    `json:"isbn"`
	Quantity          int       `json:"quantity"`
	AvailableQuantity int       `json:"available_quantity"`
	Category          string    `json:"category"`
	Barcode           string    `json:"barcode,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BookStats is the aggregate view served by GET /api/books/stats.
type BookStats struct {
	TotalBooks     int64 `json:"total_books"`
	AvailableBooks int64 `json:"available_books"`
	BorrowedBooks  int64 `json:"borrowed_books"`
	OverdueBooks   int64 `json:"overdue_books"`
}
