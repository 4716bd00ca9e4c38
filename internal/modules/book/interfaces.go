package book

import (
	"context"
	"time"

	"bookhive/internal/domain"
)

type BookRepository interface {
	Create(ctx context.Context, b *domain.Book) error
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	Update(ctx context.Context, b *domain.Book) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, now time.Time) (*domain.BookStats, error)
}
