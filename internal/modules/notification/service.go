package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookhive/internal/domain"
	"bookhive/internal/mailer"
)

type Service struct {
	repo   Repository
	users  AdminLister
	hub    Pusher
	mailer mailer.Mailer
}

func NewService(repo Repository, users AdminLister, hub Pusher, m mailer.Mailer) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		hub:    hub,
		mailer: m,
	}
}

type email struct {
	to      string
	subject string
	body    string
}

// dispatch runs the three delivery channels in order: persist, push, email.
// Each channel fails independently; a failure is logged and the remaining
// channels still run. The triggering business transaction has already
// committed, so nothing here may surface as an error to the caller.
func (s *Service) dispatch(ctx context.Context, n domain.Notification, mail *email) {
	if err := s.repo.Create(ctx, &n); err != nil {
		log.Printf("notification persist failed user_id=%d type=%s: %v", n.UserID, n.Type, err)
	}

	if s.hub != nil {
		s.hub.SendToUser(n.UserID, wsEvent{Type: "NOTIFICATION", Notification: n})
	}

	if mail != nil && s.mailer != nil {
		if err := s.mailer.Send(ctx, mail.to, mail.subject, mail.body); err != nil {
			log.Printf("notification email failed to=%s type=%s: %v", mail.to, n.Type, err)
		}
	}
}

// Read-state operations.

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) ClearAll(ctx context.Context, userID int64) (int64, error) {
	return s.repo.DeleteAllForUser(ctx, userID)
}

// Event fan-outs.

func (s *Service) NotifyBorrowConfirmed(ctx context.Context, userID, borrowID int64, bookTitle string) {
	s.dispatch(ctx, domain.Notification{
		UserID:   userID,
		Type:     domain.NotifBorrowConfirmed,
		Title:    "Book Borrowed",
		Message:  fmt.Sprintf("You have successfully borrowed %q", bookTitle),
		BorrowID: &borrowID,
	}, nil)
}

func (s *Service) NotifyAdminsBookBorrowed(ctx context.Context, borrowID int64, bookTitle, borrowerName string, due time.Time) {
	admins, err := s.users.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		log.Printf("admin fan-out skipped type=%s: %v", domain.NotifBookBorrowed, err)
		return
	}

	msg := fmt.Sprintf("%s borrowed %q, due back on %s", borrowerName, bookTitle, due.Format("January 2, 2006"))
	for _, admin := range admins {
		s.dispatch(ctx, domain.Notification{
			UserID:   admin.ID,
			Type:     domain.NotifBookBorrowed,
			Title:    "Book Borrowed",
			Message:  msg,
			BorrowID: &borrowID,
		}, &email{
			to:      admin.Email,
			subject: "BookHive: book borrowed",
			body:    emailBody("Book Borrowed", msg),
		})
	}
}

func (s *Service) NotifyBookReturned(ctx context.Context, userID, borrowID int64, bookTitle string) {
	s.dispatch(ctx, domain.Notification{
		UserID:   userID,
		Type:     domain.NotifBookReturned,
		Title:    "Book Returned",
		Message:  fmt.Sprintf("You have returned %q. Thank you!", bookTitle),
		BorrowID: &borrowID,
	}, nil)
}

func (s *Service) NotifyAdminsBookReturned(ctx context.Context, borrowID int64, bookTitle, borrowerName string) {
	admins, err := s.users.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		log.Printf("admin fan-out skipped type=%s: %v", domain.NotifBookReturned, err)
		return
	}

	msg := fmt.Sprintf("%s returned %q", borrowerName, bookTitle)
	for _, admin := range admins {
		s.dispatch(ctx, domain.Notification{
			UserID:   admin.ID,
			Type:     domain.NotifBookReturned,
			Title:    "Book Returned",
			Message:  msg,
			BorrowID: &borrowID,
		}, &email{
			to:      admin.Email,
			subject: "BookHive: book returned",
			body:    emailBody("Book Returned", msg),
		})
	}
}

func (s *Service) NotifyAdminsRequestCreated(ctx context.Context, requestID int64, title, author, requesterName string) {
	admins, err := s.users.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		log.Printf("admin fan-out skipped type=%s: %v", domain.NotifRequestCreated, err)
		return
	}

	msg := fmt.Sprintf("%s requested %q by %s", requesterName, title, author)
	for _, admin := range admins {
		s.dispatch(ctx, domain.Notification{
			UserID:        admin.ID,
			Type:          domain.NotifRequestCreated,
			Title:         "New Book Request",
			Message:       msg,
			BookRequestID: &requestID,
		}, &email{
			to:      admin.Email,
			subject: "BookHive: new book request",
			body:    emailBody("New Book Request", msg),
		})
	}
}

func (s *Service) NotifyRequestApproved(ctx context.Context, requester *domain.User, requestID int64, title string) {
	msg := fmt.Sprintf("Your request for %q has been approved", title)
	s.dispatch(ctx, domain.Notification{
		UserID:        requester.ID,
		Type:          domain.NotifRequestApproved,
		Title:         "Request Approved",
		Message:       msg,
		BookRequestID: &requestID,
	}, &email{
		to:      requester.Email,
		subject: "BookHive: your book request was approved",
		body:    emailBody("Request Approved", msg),
	})
}

func (s *Service) NotifyRequestRejected(ctx context.Context, requester *domain.User, requestID int64, title, comment string) {
	msg := fmt.Sprintf("Your request for %q has been rejected. Reason: %s", title, comment)
	s.dispatch(ctx, domain.Notification{
		UserID:        requester.ID,
		Type:          domain.NotifRequestRejected,
		Title:         "Request Rejected",
		Message:       msg,
		BookRequestID: &requestID,
	}, &email{
		to:      requester.Email,
		subject: "BookHive: your book request was rejected",
		body:    emailBody("Request Rejected", msg),
	})
}

func (s *Service) NotifyAcquisitionStarted(ctx context.Context, requester *domain.User, requestID int64, title string) {
	msg := fmt.Sprintf("The library has started acquiring %q", title)
	s.dispatch(ctx, domain.Notification{
		UserID:        requester.ID,
		Type:          domain.NotifAcquisitionStarted,
		Title:         "Acquisition Started",
		Message:       msg,
		BookRequestID: &requestID,
	}, &email{
		to:      requester.Email,
		subject: "BookHive: acquisition started",
		body:    emailBody("Acquisition Started", msg),
	})
}

func (s *Service) NotifyAcquisitionCompleted(ctx context.Context, requester *domain.User, requestID int64, title string) {
	msg := fmt.Sprintf("%q has been acquired and is now in the catalog", title)
	s.dispatch(ctx, domain.Notification{
		UserID:        requester.ID,
		Type:          domain.NotifAcquisitionCompleted,
		Title:         "Acquisition Completed",
		Message:       msg,
		BookRequestID: &requestID,
	}, &email{
		to:      requester.Email,
		subject: "BookHive: your requested book has arrived",
		body:    emailBody("Acquisition Completed", msg),
	})
}

func (s *Service) NotifyOverdue(ctx context.Context, userID int64, userEmail string, borrowID int64, bookTitle string) {
	msg := fmt.Sprintf("Your borrowed book %q is overdue. Please return it as soon as possible.", bookTitle)
	s.dispatch(ctx, domain.Notification{
		UserID:   userID,
		Type:     domain.NotifOverdue,
		Title:    "Book Overdue",
		Message:  msg,
		BorrowID: &borrowID,
	}, &email{
		to:      userEmail,
		subject: "BookHive: overdue book",
		body:    emailBody("Book Overdue", msg),
	})
}

func (s *Service) NotifyDueSoon(ctx context.Context, userID, borrowID int64, bookTitle string) {
	s.dispatch(ctx, domain.Notification{
		UserID:   userID,
		Type:     domain.NotifReminder,
		Title:    "Return Reminder",
		Message:  fmt.Sprintf("Your borrowed book %q is due in 3 days.", bookTitle),
		BorrowID: &borrowID,
	}, nil)
}

func emailBody(heading, text string) string {
	return fmt.Sprintf(`
		<div style="max-width: 600px; margin: 0 auto; padding: 20px; font-family: Arial, sans-serif;">
		  <h2 style="color: #B45309;">BookHive</h2>
		  <h3>%s</h3>
		  <p>%s</p>
		</div>`, heading, text)
}
