package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookhive/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	books BookRepository
}

func NewService(books BookRepository) *Service {
	return &Service{books: books}
}

// Create adds a title to the catalog. Every copy starts on the shelf, so
// available quantity always equals quantity for a new book.
func (s *Service) Create(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	b := &domain.Book{
		Title:             strings.TrimSpace(req.Title),
		Author:            strings.TrimSpace(req.Author),
		ISBN:              strings.TrimSpace(req.ISBN),
		Quantity:          req.Quantity,
		AvailableQuantity: req.Quantity,
		Category:          strings.TrimSpace(req.Category),
		Barcode:           strings.TrimSpace(req.Barcode),
	}

	if err := s.books.Create(ctx, b); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateISBN
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Book, error) {
	return s.books.List(ctx)
}

// Update applies partial changes. A quantity change keeps the borrowed-copy
// count intact: available moves by the same delta, and the new quantity may
// not drop below what is currently out on loan.
func (s *Service) Update(ctx context.Context, id int64, req UpdateBookRequest) (*domain.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		b.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		b.Author = strings.TrimSpace(*req.Author)
	}
	if req.ISBN != nil {
		b.ISBN = strings.TrimSpace(*req.ISBN)
	}
	if req.Category != nil {
		b.Category = strings.TrimSpace(*req.Category)
	}
	if req.Barcode != nil {
		b.Barcode = strings.TrimSpace(*req.Barcode)
	}
	if req.Quantity != nil {
		borrowed := b.Quantity - b.AvailableQuantity
		if *req.Quantity < borrowed {
			return nil, ErrQuantityTooLow
		}
		b.Quantity = *req.Quantity
		b.AvailableQuantity = *req.Quantity - borrowed
	}

	if err := s.books.Update(ctx, b); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrBookNotFound
		case isDuplicateKey(err):
			return nil, ErrDuplicateISBN
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (*domain.BookStats, error) {
	return s.books.Stats(ctx, time.Now())
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite has no typed error to unwrap here
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
