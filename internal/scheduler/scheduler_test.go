package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookhive/internal/domain"
	"bookhive/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBorrowSweeper struct {
	mock.Mock
}

func (m *MockBorrowSweeper) ListOverdueUnnotified(ctx context.Context, now time.Time) ([]repository.UserBorrowRow, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.UserBorrowRow), args.Error(1)
}

func (m *MockBorrowSweeper) ListDueSoonUnreminded(ctx context.Context, now, horizon time.Time) ([]repository.UserBorrowRow, error) {
	args := m.Called(ctx, now, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.UserBorrowRow), args.Error(1)
}

func (m *MockBorrowSweeper) MarkNotificationSent(ctx context.Context, borrowID int64) error {
	args := m.Called(ctx, borrowID)
	return args.Error(0)
}

func (m *MockBorrowSweeper) MarkReminderSent(ctx context.Context, borrowID int64) error {
	args := m.Called(ctx, borrowID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyOverdue(ctx context.Context, userID int64, userEmail string, borrowID int64, bookTitle string) {
	m.Called(ctx, userID, userEmail, borrowID, bookTitle)
}

func (m *MockNotifier) NotifyDueSoon(ctx context.Context, userID, borrowID int64, bookTitle string) {
	m.Called(ctx, userID, borrowID, bookTitle)
}

func overdueRow(borrowID, userID int64, email, title string) repository.UserBorrowRow {
	return repository.UserBorrowRow{
		Borrow:    domain.Borrow{ID: borrowID, UserID: userID},
		BookTitle: title,
		UserEmail: email,
	}
}

func TestSweepOverdue_NotifiesAndMarksEachBorrow(t *testing.T) {
	borrows := new(MockBorrowSweeper)
	notifs := new(MockNotifier)
	s := New(borrows, notifs)

	now := time.Now()
	borrows.On("ListOverdueUnnotified", mock.Anything, now).Return([]repository.UserBorrowRow{
		overdueRow(1, 7, "a@example.com", "Book A"),
		overdueRow(2, 8, "b@example.com", "Book B"),
	}, nil)
	notifs.On("NotifyOverdue", mock.Anything, int64(7), "a@example.com", int64(1), "Book A").Return()
	notifs.On("NotifyOverdue", mock.Anything, int64(8), "b@example.com", int64(2), "Book B").Return()
	borrows.On("MarkNotificationSent", mock.Anything, int64(1)).Return(nil)
	borrows.On("MarkNotificationSent", mock.Anything, int64(2)).Return(nil)

	processed := s.SweepOverdue(context.Background(), now)

	assert.Equal(t, 2, processed)
	borrows.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestSweepDueSoon_UsesThreeDayHorizon(t *testing.T) {
	borrows := new(MockBorrowSweeper)
	notifs := new(MockNotifier)
	s := New(borrows, notifs)

	now := time.Now()
	borrows.On("ListDueSoonUnreminded", mock.Anything, now, now.Add(72*time.Hour)).
		Return([]repository.UserBorrowRow{overdueRow(3, 9, "c@example.com", "Book C")}, nil)
	notifs.On("NotifyDueSoon", mock.Anything, int64(9), int64(3), "Book C").Return()
	borrows.On("MarkReminderSent", mock.Anything, int64(3)).Return(nil)

	processed := s.SweepDueSoon(context.Background(), now)

	assert.Equal(t, 1, processed)
	borrows.AssertExpectations(t)
}

func TestSweepOverdue_MarkFailureDoesNotCountRow(t *testing.T) {
	borrows := new(MockBorrowSweeper)
	notifs := new(MockNotifier)
	s := New(borrows, notifs)

	now := time.Now()
	borrows.On("ListOverdueUnnotified", mock.Anything, now).Return([]repository.UserBorrowRow{
		overdueRow(1, 7, "a@example.com", "Book A"),
	}, nil)
	notifs.On("NotifyOverdue", mock.Anything, int64(7), "a@example.com", int64(1), "Book A").Return()
	borrows.On("MarkNotificationSent", mock.Anything, int64(1)).Return(assert.AnError)

	processed := s.SweepOverdue(context.Background(), now)

	assert.Equal(t, 0, processed)
}

func TestSweepOverdue_OverlappingRunIsSkipped(t *testing.T) {
	borrows := new(MockBorrowSweeper)
	notifs := new(MockNotifier)
	s := New(borrows, notifs)

	now := time.Now()
	started := make(chan struct{})
	release := make(chan struct{})

	borrows.On("ListOverdueUnnotified", mock.Anything, now).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return([]repository.UserBorrowRow{}, nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.SweepOverdue(context.Background(), now)
	}()

	<-started
	// second tick while the first sweep is still inside the repository call
	processed := s.SweepOverdue(context.Background(), now)
	assert.Equal(t, 0, processed)

	close(release)
	wg.Wait()
	borrows.AssertNumberOfCalls(t, "ListOverdueUnnotified", 1)
}
