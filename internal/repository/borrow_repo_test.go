package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bookhive/internal/database"
	"bookhive/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openBorrowTestDB opens a throwaway file-backed database. BEGIN IMMEDIATE
// plus a busy timeout lets two write transactions run from separate pool
// connections without either failing on a lock.
func openBorrowTestDB(t *testing.T) (*BorrowRepository, *BookRepository) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "borrows.db") +
		"?_txlock=immediate&_pragma=busy_timeout(5000)"
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	return NewBorrowRepository(db), NewBookRepository(db)
}

func TestBorrowBook_ConcurrentBorrowsOfLastCopy(t *testing.T) {
	borrows, books := openBorrowTestDB(t)
	ctx := context.Background()

	book := &domain.Book{
		Title:             "The Art of Computer Programming",
		Author:            "Donald Knuth",
		ISBN:              "978-0201896831",
		Quantity:          1,
		AvailableQuantity: 1,
	}
	require.NoError(t, books.Create(ctx, book))

	returnDate := time.Now().Add(14 * 24 * time.Hour)
	errs := make(chan error, 2)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for userID := int64(1); userID <= 2; userID++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			<-start
			_, err := borrows.BorrowBook(ctx, userID, book.ID, returnDate)
			errs <- err
		}(userID)
	}
	close(start)
	wg.Wait()
	close(errs)

	var succeeded, refused int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrBookUnavailable):
			refused++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one borrower gets the last copy")
	assert.Equal(t, 1, refused, "the other borrower is refused")

	after, err := books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.AvailableQuantity)

	rows1, err := borrows.ListByUser(ctx, 1)
	require.NoError(t, err)
	rows2, err := borrows.ListByUser(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, len(rows1)+len(rows2), "only one borrow row exists")
}
