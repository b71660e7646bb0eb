// internal/service/token_provider.go
package service

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"medalbank/internal/util"
)

const (
	sessionTTL    = 24 * time.Hour
	rememberedTTL = 7 * 24 * time.Hour
)

// TokenProvider issues and verifies session tokens. Implementations decide
// the token format; callers only see user IDs and lifetimes.
type TokenProvider interface {
	// Issue creates a token for the user. rememberMe extends the reported
	// expiry.
	Issue(userID int64, issuedAt time.Time, rememberMe bool) (token string, expiresAt time.Time, err error)
	// Verify checks the token and returns who it belongs to and when it
	// was issued.
	Verify(token string, now time.Time) (userID int64, issuedAt time.Time, err error)
}

var stubTokenPattern = regexp.MustCompile(`^mvp_token_(\d+)_(\d+)$`)

// StubTokenProvider is the placeholder scheme used until a real identity
// provider is wired in. Tokens are self-describing and carry no signature.
type StubTokenProvider struct{}

// NewStubTokenProvider creates a new instance of StubTokenProvider.
func NewStubTokenProvider() *StubTokenProvider { return &StubTokenProvider{} }

func (p *StubTokenProvider) Issue(userID int64, issuedAt time.Time, rememberMe bool) (string, time.Time, error) {
	token := fmt.Sprintf("mvp_token_%d_%d", userID, issuedAt.UnixMilli())
	ttl := sessionTTL
	if rememberMe {
		ttl = rememberedTTL
	}
	return token, issuedAt.Add(ttl), nil
}

// Verify accepts any well-formed stub token issued within the last 24 hours.
// The remember-me extension only affects the expiry reported at login; the
// token itself does not record it.
func (p *StubTokenProvider) Verify(token string, now time.Time) (int64, time.Time, error) {
	match := stubTokenPattern.FindStringSubmatch(token)
	if match == nil {
		return 0, time.Time{}, util.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, time.Time{}, util.ErrUnauthorized
	}
	millis, err := strconv.ParseInt(match[2], 10, 64)
	if err != nil {
		return 0, time.Time{}, util.ErrUnauthorized
	}
	issuedAt := time.UnixMilli(millis).UTC()
	if issuedAt.After(now) || now.Sub(issuedAt) > sessionTTL {
		return 0, time.Time{}, util.ErrTokenExpired
	}
	return userID, issuedAt, nil
}

// JWTTokenProvider issues HS256-signed tokens carrying the user ID as the
// subject claim.
type JWTTokenProvider struct {
	secret []byte
}

// NewJWTTokenProvider creates a new instance of JWTTokenProvider.
func NewJWTTokenProvider(secret string) *JWTTokenProvider {
	return &JWTTokenProvider{secret: []byte(secret)}
}

func (p *JWTTokenProvider) Issue(userID int64, issuedAt time.Time, rememberMe bool) (string, time.Time, error) {
	ttl := sessionTTL
	if rememberMe {
		ttl = rememberedTTL
	}
	expiresAt := issuedAt.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

func (p *JWTTokenProvider) Verify(token string, now time.Time) (int64, time.Time, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		if util.IsError(err, jwt.ErrTokenExpired) {
			return 0, time.Time{}, util.ErrTokenExpired
		}
		return 0, time.Time{}, util.ErrUnauthorized
	}
	if !parsed.Valid {
		return 0, time.Time{}, util.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, time.Time{}, util.ErrUnauthorized
	}
	issuedAt := time.Time{}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time.UTC()
	}
	return userID, issuedAt, nil
}
