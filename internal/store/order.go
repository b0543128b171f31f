package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
)

// GormOrderStore is the Postgres-backed OrderStore.
type GormOrderStore struct {
	db *gorm.DB
}

// NewOrderStore creates an order store over db.
func NewOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

func (s *GormOrderStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errs.Upstream("order list", err)
	}
	return orders, nil
}

func (s *GormOrderStore) LatestByOwner(ctx context.Context, ownerID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Upstream("order latest", err)
	}
	return &order, nil
}
