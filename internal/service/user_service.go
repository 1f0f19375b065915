package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nihalsingh571/Apitask/internal/domain"
	"github.com/nihalsingh571/Apitask/pkg/e"
)

type Users struct {
	repo    UserRepository
	tokens  TokenIssuer
	revoker TokenRevoker
}

func NewUserService(repo UserRepository, tokens TokenIssuer, revoker TokenRevoker) *Users {
	return &Users{repo: repo, tokens: tokens, revoker: revoker}
}

func (s *Users) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, e.Wrap("service.Users.Register.hash", err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, e.ErrUniqueViolation) {
			return nil, e.Wrap("service.Users.Register", e.ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// Login never says which of email/password was wrong.
func (s *Users) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return "", e.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", e.ErrInvalidCredentials
	}

	return s.tokens.Issue(user)
}

func (s *Users) Logout(ctx context.Context, ident domain.Identity) error {
	ttl := time.Until(ident.ExpiresAt)
	return s.revoker.Revoke(ctx, ident.TokenID, ttl)
}
