package auth

import (
	"context"
	"time"

	"bookhive/internal/domain"
	"bookhive/internal/pkg/jwt"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error
}

type TokenService interface {
	GenerateToken(userID int64, email, role, firstName, lastName string) (string, error)
	GenerateResetToken(userID int64, ttl time.Duration) (string, error)
	ValidateResetToken(tokenStr string) (*jwt.ResetClaims, error)
}
