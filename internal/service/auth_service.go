package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mansoorceksport/restshop/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup, login and account removal
type AuthService struct {
	userRepo   domain.UserRepository
	tokens     *TokenService
	bcryptCost int
}

// NewAuthService creates a new auth service. A bcryptCost of 0 uses bcrypt.DefaultCost.
func NewAuthService(userRepo domain.UserRepository, tokens *TokenService, bcryptCost int) *AuthService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Signup registers a new user. Returns domain.ErrEmailExists if the address is taken.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a signed token.
// Unknown emails and wrong passwords both return domain.ErrAuthFailed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrAuthFailed
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrAuthFailed
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// DeleteUser removes a user account
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, domain.ErrInvalidID) {
		return domain.ErrNotFound
	}
	return err
}
