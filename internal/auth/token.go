package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues credentials and resolves them back into an actor.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the user and returns it with its expiry.
func (m *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	now := m.now()
	expiration := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})
	ss, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return ss, expiration, nil
}

// Resolve validates the credential. Every failure wraps domain.ErrUnauthenticated.
func (m *TokenManager) Resolve(tokenString string) (domain.Actor, error) {
	if tokenString == "" {
		return domain.Actor{}, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.Actor{}, errors.Join(domain.ErrUnauthenticated, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: invalid subject", domain.ErrUnauthenticated)
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Actor{}, fmt.Errorf("%w: invalid role %q", domain.ErrUnauthenticated, claims.Role)
	}

	return domain.Actor{UserID: userID, Role: role}, nil
}
