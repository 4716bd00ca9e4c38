package repository

import (
	"context"
	"time"

	"bookhive/internal/domain"

	"gorm.io/gorm"
)

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

type bookModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	Title             string    `gorm:"column:title;size:255"`
	Author            string    `gorm:"column:author;size:255"`
	ISBN              string    `gorm:"column:isbn;uniqueIndex;size:32"`
	Quantity          int       `gorm:"column:quantity"`
	AvailableQuantity int       `gorm:"column:available_quantity"`
	Category          string    `gorm:"column:category;size:128"`
	Barcode           *string   `gorm:"column:barcode"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (bookModel) TableName() string { return "books" }

func toDomainBook(m bookModel) *domain.Book {
	var barcode string
	if m.Barcode != nil {
		barcode = *m.Barcode
	}
	return &domain.Book{
		ID:                m.ID,
		Title:             m.Title,
		Author:            m.Author,
		ISBN:              m.ISBN,
		Quantity:          m.Quantity,
		AvailableQuantity: m.AvailableQuantity,
		Category:          m.Category,
		Barcode:           barcode,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toBookModel(b *domain.Book) bookModel {
	var barcode *string
	if b.Barcode != "" {
		v := b.Barcode
		barcode = &v
	}
	return bookModel{
		ID:                b.ID,
		Title:             b.Title,
		Author:            b.Author,
		ISBN:              b.ISBN,
		Quantity:          b.Quantity,
		AvailableQuantity: b.AvailableQuantity,
		Category:          b.Category,
		Barcode:           barcode,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	m := toBookModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBook(m)
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	var m bookModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBook(m), nil
}

func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	var rows []bookModel
	tx := r.db.WithContext(ctx).Order("title").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Book, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBook(m))
	}
	return out, nil
}

func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	m := toBookModel(b)
	tx := r.db.WithContext(ctx).
		Model(&bookModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"title":              m.Title,
			"author":             m.Author,
			"isbn":               m.ISBN,
			"quantity":           m.Quantity,
			"available_quantity": m.AvailableQuantity,
			"category":           m.Category,
			"barcode":            m.Barcode,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&bookModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Stats aggregates catalog totals. Overdue is derived the same way borrow
// status is: unreturned rows whose due date has passed.
func (r *BookRepository) Stats(ctx context.Context, now time.Time) (*domain.BookStats, error) {
	type sums struct {
		Total     int64
		Available int64
	}
	var s sums
	if err := r.db.WithContext(ctx).
		Model(&bookModel{}).
		Select("COALESCE(SUM(quantity),0) AS total, COALESCE(SUM(available_quantity),0) AS available").
		Scan(&s).Error; err != nil {
		return nil, err
	}

	var overdue int64
	if err := r.db.WithContext(ctx).
		Model(&borrowModel{}).
		Where("actual_return_date IS NULL AND return_date < ?", now).
		Count(&overdue).Error; err != nil {
		return nil, err
	}

	return &domain.BookStats{
		TotalBooks:     s.Total,
		AvailableBooks: s.Available,
		BorrowedBooks:  s.Total - s.Available,
		OverdueBooks:   overdue,
	}, nil
}
