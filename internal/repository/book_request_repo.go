package repository

import (
	"context"
	"time"

	"bookhive/internal/domain"

	"gorm.io/gorm"
)

type BookRequestRepository struct {
	db *gorm.DB
}

func NewBookRequestRepository(db *gorm.DB) *BookRequestRepository {
	return &BookRequestRepository{db: db}
}

type bookRequestModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UserID       int64     `gorm:"column:user_id;index"`
	Title        string    `gorm:"column:title"`
	Author       string    `gorm:"column:author"`
	ExternalLink *string   `gorm:"column:external_link"`
	Status       string    `gorm:"column:status;size:32"`
	AdminComment *string   `gorm:"column:admin_comment"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (bookRequestModel) TableName() string { return "book_requests" }

func toDomainRequest(m bookRequestModel) *domain.BookRequest {
	var link, comment string
	if m.ExternalLink != nil {
		link = *m.ExternalLink
	}
	if m.AdminComment != nil {
		comment = *m.AdminComment
	}
	return &domain.BookRequest{
		ID:           m.ID,
		UserID:       m.UserID,
		Title:        m.Title,
		Author:       m.Author,
		ExternalLink: link,
		Status:       domain.RequestStatus(m.Status),
		AdminComment: comment,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *BookRequestRepository) Create(ctx context.Context, req *domain.BookRequest) error {
	var link *string
	if req.ExternalLink != "" {
		v := req.ExternalLink
		link = &v
	}
	m := bookRequestModel{
		UserID:       req.UserID,
		Title:        req.Title,
		Author:       req.Author,
		ExternalLink: link,
		Status:       string(req.Status),
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*req = *toDomainRequest(m)
	return nil
}

func (r *BookRequestRepository) GetByID(ctx context.Context, id int64) (*domain.BookRequest, error) {
	var m bookRequestModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRequest(m), nil
}

// RequestRow is a request joined with its requester for the admin listing.
type RequestRow struct {
	Request        domain.BookRequest
	RequesterName  string
	RequesterEmail string
}

func (r *BookRequestRepository) ListAll(ctx context.Context) ([]RequestRow, error) {
	var rows []struct {
		Request   bookRequestModel `gorm:"embedded"`
		FirstName string           `gorm:"column:first_name"`
		LastName  string           `gorm:"column:last_name"`
		Email     string           `gorm:"column:email"`
	}

	tx := r.db.WithContext(ctx).
		Table("book_requests").
		Select("book_requests.*, users.first_name, users.last_name, users.email").
		Joins("JOIN users ON users.id = book_requests.user_id").
		Order("book_requests.created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]RequestRow, 0, len(rows))
	for _, it := range rows {
		name := it.FirstName
		if it.LastName != "" {
			name = it.FirstName + " " + it.LastName
		}
		out = append(out, RequestRow{
			Request:        *toDomainRequest(it.Request),
			RequesterName:  name,
			RequesterEmail: it.Email,
		})
	}
	return out, nil
}

func (r *BookRequestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookRequest, error) {
	var rows []bookRequestModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.BookRequest, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRequest(m))
	}
	return out, nil
}

// UpdateStatus moves a request between states. The WHERE clause repeats the
// expected current status, so a transition raced by another admin matches
// zero rows instead of overwriting their change.
func (r *BookRequestRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus, adminComment string) error {
	updates := map[string]any{"status": string(to)}
	if adminComment != "" {
		updates["admin_comment"] = adminComment
	}

	res := r.db.WithContext(ctx).
		Model(&bookRequestModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
