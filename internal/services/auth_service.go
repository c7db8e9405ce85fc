package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gotier/internal/auth"
	"gotier/internal/domain"
	"gotier/internal/repos"
)

var ErrBadCreds = domain.Unauthorized(domain.ReasonBadCredentials)

// ErrInvalidToken covers bad signatures, expiry and tokens whose account is gone.
var ErrInvalidToken = errors.New("invalid token")

// dummyHash keeps unknown-user logins as slow as real ones.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

type AuthService struct {
	Customers *repos.CustomerRepo
	Tokens    *auth.Tokens
}

func NewAuthService(customers *repos.CustomerRepo, tokens *auth.Tokens) *AuthService {
	return &AuthService{Customers: customers, Tokens: tokens}
}

// CheckPassword returns the customer when password matches their stored hash.
func (s *AuthService) CheckPassword(ctx context.Context, username, password string) (*domain.Customer, error) {
	c, err := s.Customers.ByUsername(ctx, username)
	if errors.Is(err, repos.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrBadCreds
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return c, nil
}

// Login checks credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, *domain.Customer, error) {
	c, err := s.CheckPassword(ctx, username, password)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	tok, exp, err := s.Tokens.Issue(auth.Identity{CustomerID: c.ID, Staff: c.IsStaff})
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return tok, exp, c, nil
}

// Identify verifies a bearer token and that its account still exists. The
// staff flag comes from the stored account, not the token.
func (s *AuthService) Identify(ctx context.Context, raw string) (auth.Identity, error) {
	id, err := s.Tokens.Verify(raw)
	if err != nil {
		return auth.Identity{}, ErrInvalidToken
	}
	c, err := s.Customers.ByID(ctx, id.CustomerID)
	if errors.Is(err, repos.ErrNotFound) {
		return auth.Identity{}, ErrInvalidToken
	}
	if err != nil {
		return auth.Identity{}, err
	}
	id.Staff = c.IsStaff
	return id, nil
}
