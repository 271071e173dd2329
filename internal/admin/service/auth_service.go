package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type TokenIssuer interface {
	Issue(u domain.User) (string, error)
}

type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

func NewAuthService(users UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate checks admin credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*dto.AdminAuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			s.logger.Info("admin login for unknown email", zap.String("email", email))
			return nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Warn("stored password hash is unusable", zap.Int64("userId", user.ID), zap.Error(err))
		}
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	if !user.IsAdmin() {
		s.logger.Warn("non-admin attempted admin login", zap.Int64("userId", user.ID))
		return nil, apperrors.NewForbiddenError("admin access required")
	}

	signed, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue session token", err)
	}

	s.logger.Info("admin authenticated", zap.Int64("userId", user.ID))
	return &dto.AdminAuthResponse{
		User:    NewSessionUser(user.ID, user.Email, user.Name, user.Role),
		Token:   signed,
		Message: "authentication successful",
	}, nil
}

func NewSessionUser(id int64, email, name, role string) dto.SessionUser {
	return dto.SessionUser{
		ID:      id,
		Email:   email,
		Name:    name,
		Role:    role,
		IsAdmin: role == domain.RoleAdmin,
	}
}
