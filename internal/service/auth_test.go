package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/middleware"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/pkg/logger"
)

const testSecret = "test-secret"

func newAuthService(users *fakeUserStore) *AuthService {
	return NewAuthService(users, logger.NewNop(), testSecret, time.Hour, 5*time.Minute, false)
}

func issuedCode(t *testing.T, svc *AuthService, phone string) string {
	t.Helper()
	svc.mu.Lock()
	defer svc.mu.Unlock()
	entry, ok := svc.codes[phone]
	require.True(t, ok, "no pending code for %s", phone)
	return entry.code
}

func TestRequestOTPRejectsInvalidPhone(t *testing.T) {
	svc := newAuthService(newFakeUserStore())

	assert.True(t, errs.IsValidation(svc.RequestOTP(context.Background(), "not-a-phone")))
	assert.NoError(t, svc.RequestOTP(context.Background(), "+4915712345678"))
}

func TestVerifyCreatesUserAndMintsToken(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)
	phone := "+4915712345678"

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	code := issuedCode(t, svc, phone)

	token, user, err := svc.Verify(context.Background(), phone, code)
	require.NoError(t, err)
	assert.Equal(t, phone, user.Phone)
	assert.Equal(t, model.RoleCustomer, user.Role)

	claims := &middleware.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, model.RoleCustomer, claims.Role)
}

func TestVerifyReusesExistingAccount(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)
	phone := "+4915712345678"

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	_, first, err := svc.Verify(context.Background(), phone, issuedCode(t, svc, phone))
	require.NoError(t, err)

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	_, second, err := svc.Verify(context.Background(), phone, issuedCode(t, svc, phone))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	svc := newAuthService(newFakeUserStore())
	phone := "+4915712345678"

	require.NoError(t, svc.RequestOTP(context.Background(), phone))

	_, _, err := svc.Verify(context.Background(), phone, "000000")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestVerifyCodeIsSingleUse(t *testing.T) {
	svc := newAuthService(newFakeUserStore())
	phone := "+4915712345678"

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	code := issuedCode(t, svc, phone)

	_, _, err := svc.Verify(context.Background(), phone, code)
	require.NoError(t, err)

	_, _, err = svc.Verify(context.Background(), phone, code)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestVerifyRejectsExpiredCode(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), logger.NewNop(), testSecret, time.Hour, -time.Minute, false)
	phone := "+4915712345678"

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	code := issuedCode(t, svc, phone)

	_, _, err := svc.Verify(context.Background(), phone, code)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
