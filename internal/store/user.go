package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
)

// GormUserStore is the Postgres-backed UserStore.
type GormUserStore struct {
	db *gorm.DB
}

// NewUserStore creates a user store over db.
func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Upstream("user get", err)
	}
	return &u, nil
}

func (s *GormUserStore) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Upstream("user get", err)
	}
	return &u, nil
}

func (s *GormUserStore) Create(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return errs.Upstream("user create", err)
	}
	return nil
}
