package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookhive/internal/domain"
	"bookhive/internal/mailer"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

type Service struct {
	users     UserRepository
	tokens    TokenService
	mail      mailer.Mailer
	clientURL string
}

func NewService(users UserRepository, tokens TokenService, mail mailer.Mailer, clientURL string) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		mail:      mail,
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

// Register creates an account, defaulting to the member role.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.UserRole(req.Role)
	if !role.Valid() {
		role = domain.RoleMember
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.issueToken(u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(u)
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ForgotPassword issues a one-hour reset token, stores it on the user and
// mails the reset link. This is the one place where a mail failure surfaces
// to the caller, since without the email the flow is dead.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := s.tokens.GenerateResetToken(u.ID, resetTokenTTL)
	if err != nil {
		return err
	}

	expiry := time.Now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, u.ID, token, expiry); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	return s.mail.Send(ctx, u.Email, "BookHive Password Reset", resetEmailBody(u.FirstName, link))
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.ValidateResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return ErrInvalidResetToken
	}

	// the stored token must match: issuing a new one invalidates older links
	if u.ResetToken != token || u.ResetTokenExpiry == nil || u.ResetTokenExpiry.Before(time.Now()) {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, u.ID, string(hash))
}

func (s *Service) issueToken(u *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(u.ID, u.Email, string(u.Role), u.FirstName, u.LastName)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: u}, nil
}

func resetEmailBody(firstName, link string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #B45309;">BookHive</h2>
  <p>Hi %s,</p>
  <p>We received a request to reset your password. Click the button below to choose a new one. The link expires in one hour.</p>
  <p><a href="%s" style="background-color: #B45309; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">Reset Password</a></p>
  <p>If you did not request this, you can safely ignore this email.</p>
</div>`, firstName, link)
}
