package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("auth: invalid token")

const issuer = "gotier"

// Claims identify the customer behind a bearer token.
type Claims struct {
	Staff bool `json:"staff,omitempty"`
	jwt.RegisteredClaims
}

// Identity is what handlers need from a verified token.
type Identity struct {
	CustomerID int64
	Staff      bool
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock is for tests.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	cp := *t
	cp.now = now
	return &cp
}

func (t *Tokens) Issue(id Identity) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		Staff: id.Staff,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(id.CustomerID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp, nil
}

func (t *Tokens) Verify(raw string) (Identity, error) {
	// Time-based claims are checked below against t.now, not the package clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	claims := &Claims{}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return t.secret, nil }); err != nil {
		return Identity{}, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(t.now(), true) || !claims.VerifyIssuer(issuer, true) {
		return Identity{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id < 1 {
		return Identity{}, ErrInvalidToken
	}
	return Identity{CustomerID: id, Staff: claims.Staff}, nil
}
