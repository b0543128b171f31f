package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
)

// GormKnowledgeStore is the Postgres-backed KnowledgeStore.
type GormKnowledgeStore struct {
	db *gorm.DB
}

// NewKnowledgeStore creates a knowledge store over db.
func NewKnowledgeStore(db *gorm.DB) *GormKnowledgeStore {
	return &GormKnowledgeStore{db: db}
}

func (s *GormKnowledgeStore) List(ctx context.Context) ([]model.KnowledgeEntry, error) {
	var entries []model.KnowledgeEntry
	err := s.db.WithContext(ctx).
		Order("position ASC, created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, errs.Upstream("knowledge list", err)
	}
	return entries, nil
}

func (s *GormKnowledgeStore) Get(ctx context.Context, id string) (*model.KnowledgeEntry, error) {
	var entry model.KnowledgeEntry
	err := s.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Upstream("knowledge get", err)
	}
	return &entry, nil
}

func (s *GormKnowledgeStore) Add(ctx context.Context, entry *model.KnowledgeEntry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errs.Upstream("knowledge add", err)
	}
	return nil
}

func (s *GormKnowledgeStore) Update(ctx context.Context, id string, patch model.KnowledgeEntryPatch) (*model.KnowledgeEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Question != nil {
		entry.Question = *patch.Question
	}
	if patch.Kind != nil {
		entry.Kind = *patch.Kind
	}
	if patch.Body != nil {
		entry.Body = *patch.Body
	}
	if patch.ResolverKey != nil {
		entry.ResolverKey = *patch.ResolverKey
	}
	if patch.Position != nil {
		entry.Position = *patch.Position
	}
	entry.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, errs.Upstream("knowledge update", err)
	}
	return entry, nil
}

func (s *GormKnowledgeStore) Remove(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.KnowledgeEntry{}, "id = ?", id)
	if res.Error != nil {
		return errs.Upstream("knowledge remove", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
