package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claims")
	ErrWrongKind    = errors.New("wrong token kind")
)

// TokenKind tags a token as short-lived access or long-lived refresh.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// SessionClaims are the JWT claims for a user session token.
type SessionClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Kind returns the token kind tag carried in the claims.
func (c *SessionClaims) Kind() TokenKind { return TokenKind(c.TokenType) }

// TokenManager mints and validates the access/refresh token pair bound
// to a user identifier.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(secret, issuer string, accessMinutes, refreshDays int) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  time.Duration(accessMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshDays) * 24 * time.Hour,
	}
}

// GenerateAccessToken mints a short-lived access token for a user id.
func (tm *TokenManager) GenerateAccessToken(userID string) (string, error) {
	return tm.generate(userID, KindAccess, tm.accessTTL)
}

// GenerateRefreshToken mints a long-lived refresh token for a user id.
func (tm *TokenManager) GenerateRefreshToken(userID string) (string, error) {
	return tm.generate(userID, KindRefresh, tm.refreshTTL)
}

func (tm *TokenManager) generate(userID string, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := SessionClaims{
		TokenType: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tm.issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a token string and checks its kind tag. A
// structurally valid token of the wrong kind fails with ErrWrongKind.
func (tm *TokenManager) ValidateToken(tokenString string, expected TokenKind) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaim
	}

	if claims.Kind() != expected {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongKind, claims.TokenType, expected)
	}

	return claims, nil
}

// AccessTTL returns the access token lifetime.
func (tm *TokenManager) AccessTTL() time.Duration { return tm.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (tm *TokenManager) RefreshTTL() time.Duration { return tm.refreshTTL }
