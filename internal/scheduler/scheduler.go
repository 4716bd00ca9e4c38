package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"bookhive/internal/repository"

	"github.com/robfig/cron/v3"
)

const dueSoonWindow = 72 * time.Hour

// BorrowSweeper is the slice of the borrow repository the sweeps need.
type BorrowSweeper interface {
	ListOverdueUnnotified(ctx context.Context, now time.Time) ([]repository.UserBorrowRow, error)
	ListDueSoonUnreminded(ctx context.Context, now, horizon time.Time) ([]repository.UserBorrowRow, error)
	MarkNotificationSent(ctx context.Context, borrowID int64) error
	MarkReminderSent(ctx context.Context, borrowID int64) error
}

type Notifier interface {
	NotifyOverdue(ctx context.Context, userID int64, userEmail string, borrowID int64, bookTitle string)
	NotifyDueSoon(ctx context.Context, userID, borrowID int64, bookTitle string)
}

// Scheduler runs the daily due-date sweeps. Each sweep holds its own lock so
// a slow run is skipped rather than stacked when the next tick fires.
type Scheduler struct {
	borrows BorrowSweeper
	notifs  Notifier
	cron    *cron.Cron

	overdueMu sync.Mutex
	dueSoonMu sync.Mutex
}

func New(borrows BorrowSweeper, notifs Notifier) *Scheduler {
	return &Scheduler{
		borrows: borrows,
		notifs:  notifs,
		cron:    cron.New(),
	}
}

// Start registers the cron entries and launches the scheduler goroutine.
// Overdue checks run at midnight, reminders at 09:00.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 * * *", func() {
		s.SweepOverdue(context.Background(), time.Now())
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 9 * * *", func() {
		s.SweepDueSoon(context.Background(), time.Now())
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("scheduler started: overdue sweep at 00:00, reminder sweep at 09:00")
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// SweepOverdue notifies every borrower whose loan is past due and has not been
// told yet, then flags the borrow so the next run skips it. Returns how many
// borrows were processed.
func (s *Scheduler) SweepOverdue(ctx context.Context, now time.Time) int {
	if !s.overdueMu.TryLock() {
		log.Println("overdue sweep still running, skipping this tick")
		return 0
	}
	defer s.overdueMu.Unlock()

	rows, err := s.borrows.ListOverdueUnnotified(ctx, now)
	if err != nil {
		log.Printf("overdue sweep: listing borrows: %v", err)
		return 0
	}

	processed := 0
	for _, row := range rows {
		s.notifs.NotifyOverdue(ctx, row.Borrow.UserID, row.UserEmail, row.Borrow.ID, row.BookTitle)
		if err := s.borrows.MarkNotificationSent(ctx, row.Borrow.ID); err != nil {
			log.Printf("overdue sweep: marking borrow %d: %v", row.Borrow.ID, err)
			continue
		}
		processed++
	}

	if processed > 0 {
		log.Printf("overdue sweep: notified %d borrower(s)", processed)
	}
	return processed
}

// SweepDueSoon reminds borrowers whose loans fall due within the next three
// days. Reminders are in-app and push only.
func (s *Scheduler) SweepDueSoon(ctx context.Context, now time.Time) int {
	if !s.dueSoonMu.TryLock() {
		log.Println("reminder sweep still running, skipping this tick")
		return 0
	}
	defer s.dueSoonMu.Unlock()

	rows, err := s.borrows.ListDueSoonUnreminded(ctx, now, now.Add(dueSoonWindow))
	if err != nil {
		log.Printf("reminder sweep: listing borrows: %v", err)
		return 0
	}

	processed := 0
	for _, row := range rows {
		s.notifs.NotifyDueSoon(ctx, row.Borrow.UserID, row.Borrow.ID, row.BookTitle)
		if err := s.borrows.MarkReminderSent(ctx, row.Borrow.ID); err != nil {
			log.Printf("reminder sweep: marking borrow %d: %v", row.Borrow.ID, err)
			continue
		}
		processed++
	}

	if processed > 0 {
		log.Printf("reminder sweep: reminded %d borrower(s)", processed)
	}
	return processed
}
