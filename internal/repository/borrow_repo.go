package repository

import (
	"context"
	"errors"
	"time"

	"bookhive/internal/domain"

	"gorm.io/gorm"
)

// Guard violations surfaced by the transactional borrow/return paths.
var (
	ErrBookUnavailable = errors.New("book has no available copies")
	ErrAlreadyReturned = errors.New("borrow already returned")
)

type BorrowRepository struct {
	db *gorm.DB
}

func NewBorrowRepository(db *gorm.DB) *BorrowRepository {
	return &BorrowRepository{db: db}
}

type borrowModel struct {
	ID               int64      `gorm:"column:id;primaryKey"`
	UserID           int64      `gorm:"column:user_id;index"`
	BookID           int64      `gorm:"column:book_id;index"`
	BorrowDate       time.Time  `gorm:"column:borrow_date"`
	ReturnDate       time.Time  `gorm:"column:return_date"`
	ActualReturnDate *time.Time `gorm:"column:actual_return_date"`
	NotificationSent bool       `gorm:"column:notification_sent"`
	ReminderSent     bool       `gorm:"column:reminder_sent"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (borrowModel) TableName() string { return "borrows" }

func toDomainBorrow(m borrowModel) *domain.Borrow {
	return &domain.Borrow{
		ID:               m.ID,
		UserID:           m.UserID,
		BookID:           m.BookID,
		BorrowDate:       m.BorrowDate,
		ReturnDate:       m.ReturnDate,
		ActualReturnDate: m.ActualReturnDate,
		NotificationSent: m.NotificationSent,
		ReminderSent:     m.ReminderSent,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// BorrowBook creates the borrow row and takes one copy off the shelf in a
// single transaction. The decrement is a guarded single-statement update, so
// two concurrent borrows of the last copy cannot both succeed: the second
// matches zero rows and the whole transaction rolls back.
func (r *BorrowRepository) BorrowBook(ctx context.Context, userID, bookID int64, returnDate time.Time) (*domain.Borrow, error) {
	var m borrowModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book bookModel
		if err := tx.First(&book, bookID).Error; err != nil {
			return err
		}
		if book.AvailableQuantity <= 0 {
			return ErrBookUnavailable
		}

		m = borrowModel{
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: time.Now(),
			ReturnDate: returnDate,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		res := tx.Model(&bookModel{}).
			Where("id = ? AND available_quantity > 0", bookID).
			Update("available_quantity", gorm.Expr("available_quantity - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookUnavailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDomainBorrow(m), nil
}

// ReturnBook stamps the actual return date and puts the copy back, in one
// transaction. The stamp is guarded on actual_return_date IS NULL so a repeat
// return matches zero rows and never increments twice.
func (r *BorrowRepository) ReturnBook(ctx context.Context, borrowID int64) (*domain.Borrow, error) {
	var m borrowModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, borrowID).Error; err != nil {
			return err
		}
		if m.ActualReturnDate != nil {
			return ErrAlreadyReturned
		}

		now := time.Now()
		res := tx.Model(&borrowModel{}).
			Where("id = ? AND actual_return_date IS NULL", borrowID).
			Update("actual_return_date", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReturned
		}
		m.ActualReturnDate = &now

		return tx.Model(&bookModel{}).
			Where("id = ?", m.BookID).
			Update("available_quantity", gorm.Expr("available_quantity + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return toDomainBorrow(m), nil
}

func (r *BorrowRepository) GetByID(ctx context.Context, id int64) (*domain.Borrow, error) {
	var m borrowModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBorrow(m), nil
}

// UserBorrowRow is a borrow joined with the book it refers to. UserEmail is
// only populated by the due-date sweep queries.
type UserBorrowRow struct {
	Borrow    domain.Borrow
	BookTitle string
	Author    string
	UserEmail string
}

func (r *BorrowRepository) ListByUser(ctx context.Context, userID int64) ([]UserBorrowRow, error) {
	var rows []struct {
		Borrow    borrowModel `gorm:"embedded"`
		BookTitle string      `gorm:"column:book_title"`
		Author    string      `gorm:"column:author"`
	}

	tx := r.db.WithContext(ctx).
		Table("borrows").
		Select("borrows.*, books.title AS book_title, books.author AS author").
		Joins("JOIN books ON books.id = borrows.book_id").
		Where("borrows.user_id = ?", userID).
		Order("borrows.borrow_date DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]UserBorrowRow, 0, len(rows))
	for _, it := range rows {
		out = append(out, UserBorrowRow{
			Borrow:    *toDomainBorrow(it.Borrow),
			BookTitle: it.BookTitle,
			Author:    it.Author,
		})
	}
	return out, nil
}

// ListOverdueUnnotified returns unreturned borrows past their due date whose
// overdue notification has not gone out yet, joined with the book title.
func (r *BorrowRepository) ListOverdueUnnotified(ctx context.Context, now time.Time) ([]UserBorrowRow, error) {
	return r.listDueRows(ctx,
		"borrows.actual_return_date IS NULL AND borrows.return_date < ? AND borrows.notification_sent = ?",
		now, false)
}

// ListDueSoonUnreminded returns unreturned borrows due between now and the
// horizon that have not been reminded yet.
func (r *BorrowRepository) ListDueSoonUnreminded(ctx context.Context, now, horizon time.Time) ([]UserBorrowRow, error) {
	return r.listDueRows(ctx,
		"borrows.actual_return_date IS NULL AND borrows.return_date > ? AND borrows.return_date < ? AND borrows.reminder_sent = ?",
		now, horizon, false)
}

func (r *BorrowRepository) listDueRows(ctx context.Context, cond string, args ...any) ([]UserBorrowRow, error) {
	var rows []struct {
		Borrow    borrowModel `gorm:"embedded"`
		BookTitle string      `gorm:"column:book_title"`
		Author    string      `gorm:"column:author"`
		UserEmail string      `gorm:"column:user_email"`
	}

	tx := r.db.WithContext(ctx).
		Table("borrows").
		Select("borrows.*, books.title AS book_title, books.author AS author, users.email AS user_email").
		Joins("JOIN books ON books.id = borrows.book_id").
		Joins("JOIN users ON users.id = borrows.user_id").
		Where(cond, args...).
		Order("borrows.return_date").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]UserBorrowRow, 0, len(rows))
	for _, it := range rows {
		out = append(out, UserBorrowRow{
			Borrow:    *toDomainBorrow(it.Borrow),
			BookTitle: it.BookTitle,
			Author:    it.Author,
			UserEmail: it.UserEmail,
		})
	}
	return out, nil
}

func (r *BorrowRepository) MarkNotificationSent(ctx context.Context, borrowID int64) error {
	return r.db.WithContext(ctx).
		Model(&borrowModel{}).
		Where("id = ?", borrowID).
		Update("notification_sent", true).Error
}

func (r *BorrowRepository) MarkReminderSent(ctx context.Context, borrowID int64) error {
	return r.db.WithContext(ctx).
		Model(&borrowModel{}).
		Where("id = ?", borrowID).
		Update("reminder_sent", true).Error
}
