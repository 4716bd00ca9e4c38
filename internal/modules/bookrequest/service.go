package bookrequest

import (
	"context"
	"errors"
	"strings"

	"bookhive/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	requests RequestRepository
	users    UserReader
	notifs   Notifier
}

func NewService(requests RequestRepository, users UserReader, notifs Notifier) *Service {
	return &Service{
		requests: requests,
		users:    users,
		notifs:   notifs,
	}
}

// Create opens a new request in the pending state and tells every admin.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequestRequest) (*domain.BookRequest, error) {
	r := &domain.BookRequest{
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		Author:       strings.TrimSpace(req.Author),
		ExternalLink: strings.TrimSpace(req.ExternalLink),
		Status:       domain.RequestPending,
	}
	if r.Title == "" || r.Author == "" {
		return nil, ErrValidation
	}

	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		requesterName := ""
		if u, err := s.users.GetByID(ctx, userID); err == nil {
			requesterName = u.FullName()
		}
		s.notifs.NotifyAdminsRequestCreated(ctx, r.ID, r.Title, r.Author, requesterName)
	}

	return r, nil
}

func (s *Service) ListAll(ctx context.Context) ([]RequestDetails, error) {
	rows, err := s.requests.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RequestDetails, 0, len(rows))
	for _, r := range rows {
		out = append(out, RequestDetails{
			ID:             r.Request.ID,
			Title:          r.Request.Title,
			Author:         r.Request.Author,
			ExternalLink:   r.Request.ExternalLink,
			Status:         r.Request.Status,
			AdminComment:   r.Request.AdminComment,
			RequesterName:  r.RequesterName,
			RequesterEmail: r.RequesterEmail,
			CreatedAt:      r.Request.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.BookRequest, error) {
	return s.requests.ListByUser(ctx, userID)
}

func (s *Service) Approve(ctx context.Context, requestID int64) (*domain.BookRequest, error) {
	return s.transition(ctx, requestID, domain.RequestApproved, "",
		func(ctx context.Context, requester *domain.User, r *domain.BookRequest) {
			s.notifs.NotifyRequestApproved(ctx, requester, r.ID, r.Title)
		})
}

func (s *Service) Reject(ctx context.Context, requestID int64, comment string) (*domain.BookRequest, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrCommentRequired
	}
	return s.transition(ctx, requestID, domain.RequestRejected, comment,
		func(ctx context.Context, requester *domain.User, r *domain.BookRequest) {
			s.notifs.NotifyRequestRejected(ctx, requester, r.ID, r.Title, comment)
		})
}

func (s *Service) StartAcquisition(ctx context.Context, requestID int64) (*domain.BookRequest, error) {
	return s.transition(ctx, requestID, domain.RequestInProgress, "",
		func(ctx context.Context, requester *domain.User, r *domain.BookRequest) {
			s.notifs.NotifyAcquisitionStarted(ctx, requester, r.ID, r.Title)
		})
}

func (s *Service) CompleteAcquisition(ctx context.Context, requestID int64) (*domain.BookRequest, error) {
	return s.transition(ctx, requestID, domain.RequestCompleted, "",
		func(ctx context.Context, requester *domain.User, r *domain.BookRequest) {
			s.notifs.NotifyAcquisitionCompleted(ctx, requester, r.ID, r.Title)
		})
}

// transition guards the lifecycle table, performs the status write and fires
// the per-transition fan-out. A request in the wrong state is rejected before
// any mutation; the UPDATE itself re-checks the source state, so a raced
// transition also fails cleanly.
func (s *Service) transition(
	ctx context.Context,
	requestID int64,
	to domain.RequestStatus,
	comment string,
	notify func(ctx context.Context, requester *domain.User, r *domain.BookRequest),
) (*domain.BookRequest, error) {
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if !domain.CanTransition(r.Status, to) {
		return nil, ErrInvalidState
	}

	if err := s.requests.UpdateStatus(ctx, requestID, r.Status, to, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	r.Status = to
	if comment != "" {
		r.AdminComment = comment
	}

	if s.notifs != nil && notify != nil {
		if requester, userErr := s.users.GetByID(ctx, r.UserID); userErr == nil {
			notify(ctx, requester, r)
		}
	}

	return r, nil
}
