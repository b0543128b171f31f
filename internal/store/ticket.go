package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
)

// GormTicketStore is the Postgres-backed TicketStore.
type GormTicketStore struct {
	db *gorm.DB
}

// NewTicketStore creates a ticket store over db.
func NewTicketStore(db *gorm.DB) *GormTicketStore {
	return &GormTicketStore{db: db}
}

func (s *GormTicketStore) Create(ctx context.Context, t *model.SupportTicket) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return errs.Upstream("ticket create", err)
	}
	return nil
}

func (s *GormTicketStore) Get(ctx context.Context, id string) (*model.SupportTicket, error) {
	var t model.SupportTicket
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Upstream("ticket get", err)
	}
	return &t, nil
}

func (s *GormTicketStore) OpenBySession(ctx context.Context, sessionID string) (*model.SupportTicket, error) {
	var t model.SupportTicket
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND status = ?", sessionID, model.TicketOpen).
		Order("created_at ASC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Upstream("ticket by session", err)
	}
	return &t, nil
}

func (s *GormTicketStore) List(ctx context.Context, ownerID string, status model.TicketStatus) ([]model.SupportTicket, error) {
	tx := s.db.WithContext(ctx).Model(&model.SupportTicket{})
	if ownerID != "" {
		tx = tx.Where("owner_id = ?", ownerID)
	}
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var tickets []model.SupportTicket
	if err := tx.Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, errs.Upstream("ticket list", err)
	}
	return tickets, nil
}

func (s *GormTicketStore) UpdateStatus(ctx context.Context, id string, status model.TicketStatus) (*model.SupportTicket, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, errs.Upstream("ticket update", err)
	}
	return t, nil
}
