package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"bookhive/internal/domain"
	"bookhive/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	args := m.Called(ctx, userID, token, expiry)
	return args.Error(0)
}

type recordingMailer struct {
	to      string
	subject string
	body    string
	sent    int
}

func (m *recordingMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.to = to
	m.subject = subject
	m.body = htmlBody
	m.sent++
	return nil
}

func newTestService(users UserRepository, mail *recordingMailer) *Service {
	tokens := jwt.New("test-secret", time.Hour)
	return NewService(users, tokens, mail, "http://localhost:3000/")
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestRegister_CreatesMemberAndIssuesToken(t *testing.T) {
	users := new(MockUserRepository)
	service := newTestService(users, &recordingMailer{})

	users.On("ExistsByEmail", mock.Anything, "reader@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleMember && u.Email == "reader@example.com"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 7
	}).Return(nil)

	res, err := service.Register(context.Background(), RegisterRequest{
		Email:     "  Reader@Example.com ",
		Password:  "secret123",
		FirstName: "Aruzhan",
		LastName:  "Bekova",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleMember, res.User.Role)
	users.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	service := newTestService(users, &recordingMailer{})

	users.On("ExistsByEmail", mock.Anything, "reader@example.com").Return(true, nil)

	_, err := service.Register(context.Background(), RegisterRequest{
		Email:     "reader@example.com",
		Password:  "secret123",
		FirstName: "Aruzhan",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	service := newTestService(users, &recordingMailer{})

	users.On("GetByEmail", mock.Anything, "reader@example.com").Return(&domain.User{
		ID:           7,
		Email:        "reader@example.com",
		PasswordHash: hashOf(t, "correct-password"),
		Role:         domain.RoleMember,
	}, nil)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "reader@example.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	service := newTestService(users, &recordingMailer{})

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestForgotPassword_StoresTokenAndMailsLink(t *testing.T) {
	users := new(MockUserRepository)
	mail := &recordingMailer{}
	service := newTestService(users, mail)

	users.On("GetByEmail", mock.Anything, "reader@example.com").Return(&domain.User{
		ID:        7,
		Email:     "reader@example.com",
		FirstName: "Aruzhan",
	}, nil)

	var stored string
	users.On("SetResetToken", mock.Anything, int64(7), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.String(2)
		}).Return(nil)

	err := service.ForgotPassword(context.Background(), "reader@example.com")

	assert.NoError(t, err)
	assert.Equal(t, 1, mail.sent)
	assert.Equal(t, "reader@example.com", mail.to)
	assert.NotEmpty(t, stored)
	assert.Contains(t, mail.body, "http://localhost:3000/reset-password/"+stored)
}

func TestResetPassword_ValidTokenUpdatesHash(t *testing.T) {
	users := new(MockUserRepository)
	service := newTestService(users, &recordingMailer{})

	tokens := jwt.New("test-secret", time.Hour)
	token, err := tokens.GenerateResetToken(7, time.Hour)
	assert.NoError(t, err)

	expiry := time.Now().Add(time.Hour)
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{
		ID:               7,
		ResetToken:       token,
		ResetTokenExpiry: &expiry,
	}, nil)
	users.On("UpdatePassword", mock.Anything, int64(7), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")) == nil
	})).Return(nil)

	err = service.ResetPassword(context.Background(), token, "new-password")

	assert.NoError(t, err)
	users.AssertExpectations(t)
}

func TestResetPassword_SupersededTokenRejected(t *testing.T) {
	users := new(MockUserRepository)
	service := newTestService(users, &recordingMailer{})

	tokens := jwt.New("test-secret", time.Hour)
	oldToken, _ := tokens.GenerateResetToken(7, time.Hour)
	newToken, _ := tokens.GenerateResetToken(7, time.Hour)

	expiry := time.Now().Add(time.Hour)
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{
		ID:               7,
		ResetToken:       newToken,
		ResetTokenExpiry: &expiry,
	}, nil)

	err := service.ResetPassword(context.Background(), oldToken, "new-password")

	assert.ErrorIs(t, err, ErrInvalidResetToken)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_GarbageTokenRejected(t *testing.T) {
	users := new(MockUserRepository)
	service := newTestService(users, &recordingMailer{})

	err := service.ResetPassword(context.Background(), strings.Repeat("x", 40), "new-password")

	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
