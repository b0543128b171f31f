package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/middleware"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/store"
	"github.com/scootcare/support-platform/pkg/logger"
	"github.com/scootcare/support-platform/pkg/metrics"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

type otpEntry struct {
	code    string
	expires time.Time
}

// AuthService issues one-time codes against phone numbers and exchanges them
// for JWTs. Codes live in memory; a restart invalidates pending codes, which
// only costs the caller a re-request.
type AuthService struct {
	users         store.UserStore
	logger        *logger.Logger
	jwtSecret     string
	jwtExpiration time.Duration
	otpTTL        time.Duration
	devLog        bool

	mu    sync.Mutex
	codes map[string]otpEntry
}

// NewAuthService creates an auth service.
func NewAuthService(users store.UserStore, log *logger.Logger, jwtSecret string, jwtExpiration, otpTTL time.Duration, devLog bool) *AuthService {
	return &AuthService{
		users:         users,
		logger:        log,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		otpTTL:        otpTTL,
		devLog:        devLog,
		codes:         make(map[string]otpEntry),
	}
}

// RequestOTP issues a six-digit code for the phone number. Re-requesting
// replaces any pending code.
func (s *AuthService) RequestOTP(ctx context.Context, phone string) error {
	if !phonePattern.MatchString(phone) {
		return errs.Validation("phone", "must be a valid phone number")
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	s.mu.Lock()
	s.pruneLocked(time.Now())
	s.codes[phone] = otpEntry{code: code, expires: time.Now().Add(s.otpTTL)}
	s.mu.Unlock()

	metrics.OTPIssuedTotal.Inc()

	if s.devLog {
		// Development convenience: no SMS gateway is wired, so surface the
		// code in the server log.
		s.logger.Info("OTP issued", zap.String("phone", phone), zap.String("code", code))
	} else {
		s.logger.Info("OTP issued", zap.String("phone", phone))
	}
	return nil
}

// Verify exchanges a pending code for a signed token, creating the account on
// first sign-in. Codes are single use.
func (s *AuthService) Verify(ctx context.Context, phone, code string) (string, *model.User, error) {
	s.mu.Lock()
	entry, ok := s.codes[phone]
	if ok {
		delete(s.codes, phone)
	}
	s.mu.Unlock()

	if !ok || entry.code != code || time.Now().After(entry.expires) {
		return "", nil, errs.ErrUnauthorized
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if errors.Is(err, errs.ErrNotFound) {
		user = &model.User{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Phone:     phone,
			Role:      model.RoleCustomer,
			CreatedAt: time.Now(),
		}
		if createErr := s.users.Create(ctx, user); createErr != nil {
			return "", nil, createErr
		}
		s.logger.Info("user created", zap.String("user_id", user.ID))
	} else if err != nil {
		return "", nil, err
	}

	token, err := middleware.NewToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// pruneLocked drops expired codes. Caller holds s.mu.
func (s *AuthService) pruneLocked(now time.Time) {
	for phone, entry := range s.codes {
		if now.After(entry.expires) {
			delete(s.codes, phone)
		}
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
