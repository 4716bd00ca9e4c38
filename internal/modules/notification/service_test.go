package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookhive/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	if n != nil {
		n.ID = 101
	}
	return args.Error(0)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRepository) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockAdminLister struct {
	mock.Mock
}

func (m *MockAdminLister) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type recordingPusher struct {
	sent []int64
}

func (p *recordingPusher) SendToUser(userID int64, _ any) bool {
	p.sent = append(p.sent, userID)
	return true
}

type recordingMailer struct {
	to  []string
	err error
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	m.to = append(m.to, to)
	return m.err
}

func TestNotifyBorrowConfirmed_PersistsAndPushes(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 7 && n.Type == domain.NotifBorrowConfirmed && *n.BorrowID == 42
	})).Return(nil)

	pusher := &recordingPusher{}
	mailer := &recordingMailer{}
	svc := NewService(repo, new(MockAdminLister), pusher, mailer)

	svc.NotifyBorrowConfirmed(context.Background(), 7, 42, "Dune")

	repo.AssertExpectations(t)
	assert.Equal(t, []int64{7}, pusher.sent)
	assert.Empty(t, mailer.to, "borrower confirmation carries no email")
}

func TestNotifyAdminsBookBorrowed_FansOutToEveryAdmin(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	users := new(MockAdminLister)
	users.On("ListByRole", mock.Anything, domain.RoleAdmin).Return([]domain.User{
		{ID: 1, Email: "a1@lib.io"},
		{ID: 2, Email: "a2@lib.io"},
	}, nil)

	pusher := &recordingPusher{}
	mailer := &recordingMailer{}
	svc := NewService(repo, users, pusher, mailer)

	svc.NotifyAdminsBookBorrowed(context.Background(), 42, "Dune", "Jane Doe", time.Now().Add(7*24*time.Hour))

	repo.AssertNumberOfCalls(t, "Create", 2)
	assert.Equal(t, []int64{1, 2}, pusher.sent)
	assert.Equal(t, []string{"a1@lib.io", "a2@lib.io"}, mailer.to)
}

func TestDispatch_PersistFailureStillDeliversOtherChannels(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	pusher := &recordingPusher{}
	mailer := &recordingMailer{}
	svc := NewService(repo, new(MockAdminLister), pusher, mailer)

	requester := &domain.User{ID: 9, Email: "member@lib.io"}
	svc.NotifyRequestApproved(context.Background(), requester, 3, "Dune")

	assert.Equal(t, []int64{9}, pusher.sent, "push still runs after persist failure")
	assert.Equal(t, []string{"member@lib.io"}, mailer.to, "email still runs after persist failure")
}

func TestDispatch_EmailFailureIsSwallowed(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	mailer := &recordingMailer{err: errors.New("smtp timeout")}
	svc := NewService(repo, new(MockAdminLister), &recordingPusher{}, mailer)

	requester := &domain.User{ID: 9, Email: "member@lib.io"}
	// must not panic or propagate
	svc.NotifyRequestRejected(context.Background(), requester, 3, "Dune", "out of budget")

	repo.AssertExpectations(t)
}

func TestNotifyRequestRejected_MessageContainsComment(t *testing.T) {
	repo := new(MockRepository)
	var captured *domain.Notification
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*domain.Notification)
	}).Return(nil)

	svc := NewService(repo, new(MockAdminLister), &recordingPusher{}, &recordingMailer{})
	svc.NotifyRequestRejected(context.Background(), &domain.User{ID: 4, Email: "m@lib.io"}, 8, "Dune", "already stocked")

	assert.NotNil(t, captured)
	assert.Contains(t, captured.Message, "already stocked")
	assert.Equal(t, domain.NotifRequestRejected, captured.Type)
}

func TestGetUserNotifications_ClampsLimit(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListByUser", mock.Anything, int64(5), 50).Return([]domain.Notification{}, nil)
	repo.On("CountUnread", mock.Anything, int64(5)).Return(int64(0), nil)

	svc := NewService(repo, new(MockAdminLister), nil, nil)

	_, _, err := svc.GetUserNotifications(context.Background(), 5, 9999)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
