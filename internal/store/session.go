package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
)

// GormSessionStore is the Postgres-backed SessionStore.
type GormSessionStore struct {
	db *gorm.DB
}

// NewSessionStore creates a session store over db.
func NewSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db}
}

func (s *GormSessionStore) Create(ctx context.Context, session *model.ChatSession) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return errs.Upstream("session create", err)
	}
	return nil
}

func (s *GormSessionStore) Get(ctx context.Context, id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Upstream("session get", err)
	}
	return &session, nil
}

func (s *GormSessionStore) LatestActive(ctx context.Context, ownerID string, now time.Time) (*model.ChatSession, error) {
	var session model.ChatSession
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)",
			ownerID, model.SessionActive, now).
		Order("started_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Upstream("session latest", err)
	}
	return &session, nil
}

// Save writes the log and status guarded by the version column. The customer
// widget and an agent can append near-simultaneously; the version check turns a
// lost update into ErrVersionConflict instead of silently dropping messages.
func (s *GormSessionStore) Save(ctx context.Context, session *model.ChatSession, expectedVersion int64) error {
	blob, err := json.Marshal(session.Messages)
	if err != nil {
		return errs.Upstream("session save", err)
	}
	res := s.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("id = ? AND version = ?", session.ID, expectedVersion).
		Updates(map[string]interface{}{
			"chat_blob": string(blob),
			"status":    session.Status,
			"version":   expectedVersion + 1,
		})
	if res.Error != nil {
		return errs.Upstream("session save", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the row vanished or someone else bumped the version.
		if _, err := s.Get(ctx, session.ID); err != nil {
			return err
		}
		return errs.ErrVersionConflict
	}
	session.Version = expectedVersion + 1
	return nil
}
