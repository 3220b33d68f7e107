package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
	"github.com/dkoval/hotelreg-assistant/internal/core/ports"
)

const minPasswordLength = 8

// AuthUsecase registers users and exchanges credentials for access tokens.
type AuthUsecase struct {
	users  ports.UserStore
	hasher ports.PasswordHasher
	tokens ports.TokenManager
}

func NewAuthUsecase(users ports.UserStore, hasher ports.PasswordHasher, tokens ports.TokenManager) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (uc *AuthUsecase) Register(ctx context.Context, email, username, password, region string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if email == "" || !strings.Contains(email, "@") {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "register", fmt.Errorf("invalid email"))
	}
	if username == "" {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "register", fmt.Errorf("empty username"))
	}
	if len(password) < minPasswordLength {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "register", fmt.Errorf("password shorter than %d characters", minPasswordLength))
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "register", fmt.Errorf("email already registered"))
	} else if !domain.IsKind(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if _, err := uc.users.GetByUsername(ctx, username); err == nil {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "register", fmt.Errorf("username already taken"))
	} else if !domain.IsKind(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("check username: %w", err)
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Region:       strings.TrimSpace(region),
		IsActive:     true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := uc.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, "", domain.WrapError(domain.ErrUnauthorized, "login", fmt.Errorf("unknown email"))
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		return nil, "", domain.WrapError(domain.ErrUnauthorized, "login", fmt.Errorf("account disabled"))
	}
	if !uc.hasher.Verify(password, user.PasswordHash) {
		return nil, "", domain.WrapError(domain.ErrUnauthorized, "login", fmt.Errorf("wrong password"))
	}

	token, err := uc.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (uc *AuthUsecase) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	userID, _, err := uc.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, domain.WrapError(domain.ErrUnauthorized, "resolve token user", fmt.Errorf("user gone"))
		}
		return nil, fmt.Errorf("lookup token user: %w", err)
	}
	if !user.IsActive {
		return nil, domain.WrapError(domain.ErrUnauthorized, "resolve token user", fmt.Errorf("account disabled"))
	}
	return user, nil
}
