// internal/service/token_provider_test.go
package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"medalbank/internal/util"
)

func TestStubTokenProvider(t *testing.T) {
	provider := NewStubTokenProvider()
	issuedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	t.Run("RoundTrip", func(t *testing.T) {
		token, expiresAt, err := provider.Issue(7, issuedAt, false)

		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("mvp_token_7_%d", issuedAt.UnixMilli()), token)
		assert.Equal(t, issuedAt.Add(24*time.Hour), expiresAt)

		userID, parsedIssuedAt, err := provider.Verify(token, issuedAt.Add(time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, int64(7), userID)
		assert.Equal(t, issuedAt, parsedIssuedAt)
	})

	t.Run("RememberMeExtendsReportedExpiry", func(t *testing.T) {
		_, expiresAt, err := provider.Issue(7, issuedAt, true)

		assert.NoError(t, err)
		assert.Equal(t, issuedAt.Add(7*24*time.Hour), expiresAt)
	})

	t.Run("VerifyWindowIsAlwaysOneDay", func(t *testing.T) {
		// Remember-me changes the expiry handed to the client, but the
		// stub token itself only records the issue time.
		token, _, err := provider.Issue(7, issuedAt, true)
		assert.NoError(t, err)

		_, _, err = provider.Verify(token, issuedAt.Add(25*time.Hour))
		assert.ErrorIs(t, err, util.ErrTokenExpired)
	})

	t.Run("RejectsMalformedToken", func(t *testing.T) {
		for _, token := range []string{"", "mvp_token_", "mvp_token_abc_123", "bearer xyz"} {
			_, _, err := provider.Verify(token, issuedAt)
			assert.ErrorIs(t, err, util.ErrUnauthorized, "token %q", token)
		}
	})

	t.Run("RejectsTokenFromTheFuture", func(t *testing.T) {
		token, _, err := provider.Issue(7, issuedAt, false)
		assert.NoError(t, err)

		_, _, err = provider.Verify(token, issuedAt.Add(-time.Minute))
		assert.ErrorIs(t, err, util.ErrTokenExpired)
	})
}

func TestJWTTokenProvider(t *testing.T) {
	provider := NewJWTTokenProvider("test-secret")
	issuedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	t.Run("RoundTrip", func(t *testing.T) {
		token, expiresAt, err := provider.Issue(42, issuedAt, false)

		assert.NoError(t, err)
		assert.Equal(t, issuedAt.Add(24*time.Hour), expiresAt)

		userID, parsedIssuedAt, err := provider.Verify(token, issuedAt.Add(time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, int64(42), userID)
		assert.Equal(t, issuedAt, parsedIssuedAt)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token, _, err := provider.Issue(42, issuedAt, false)
		assert.NoError(t, err)

		_, _, err = provider.Verify(token, issuedAt.Add(25*time.Hour))
		assert.ErrorIs(t, err, util.ErrTokenExpired)
	})

	t.Run("RememberMeExtendsVerifyWindow", func(t *testing.T) {
		token, _, err := provider.Issue(42, issuedAt, true)
		assert.NoError(t, err)

		_, _, err = provider.Verify(token, issuedAt.Add(6*24*time.Hour))
		assert.NoError(t, err)
	})

	t.Run("RejectsWrongSecret", func(t *testing.T) {
		token, _, err := provider.Issue(42, issuedAt, false)
		assert.NoError(t, err)

		other := NewJWTTokenProvider("another-secret")
		_, _, err = other.Verify(token, issuedAt.Add(time.Hour))
		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})
}
