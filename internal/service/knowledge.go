package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/store"
	"github.com/scootcare/support-platform/pkg/logger"
)

// KnowledgeService is the admin surface for the curated question/resolution
// entries the matcher runs against.
type KnowledgeService struct {
	store  store.KnowledgeStore
	logger *logger.Logger
}

// NewKnowledgeService creates a knowledge service.
func NewKnowledgeService(st store.KnowledgeStore, log *logger.Logger) *KnowledgeService {
	return &KnowledgeService{store: st, logger: log}
}

// List returns all entries ordered for display.
func (s *KnowledgeService) List(ctx context.Context) ([]model.KnowledgeEntry, error) {
	return s.store.List(ctx)
}

// Get loads one entry.
func (s *KnowledgeService) Get(ctx context.Context, id string) (*model.KnowledgeEntry, error) {
	return s.store.Get(ctx, id)
}

// Add validates and stores a new entry. It becomes matchable on the next turn;
// no restart or reload step exists.
func (s *KnowledgeService) Add(ctx context.Context, entry *model.KnowledgeEntry) (*model.KnowledgeEntry, error) {
	if err := validateEntry(entry.Question, entry.Kind, entry.Body, entry.ResolverKey); err != nil {
		return nil, err
	}

	now := time.Now()
	entry.ID = uuid.Must(uuid.NewV7()).String()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := s.store.Add(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("knowledge entry added",
		zap.String("entry_id", entry.ID),
		zap.String("kind", string(entry.Kind)),
	)
	return entry, nil
}

// Update applies a partial patch to an existing entry.
func (s *KnowledgeService) Update(ctx context.Context, id string, patch model.KnowledgeEntryPatch) (*model.KnowledgeEntry, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	question := current.Question
	kind := current.Kind
	body := current.Body
	resolverKey := current.ResolverKey
	if patch.Question != nil {
		question = *patch.Question
	}
	if patch.Kind != nil {
		kind = *patch.Kind
	}
	if patch.Body != nil {
		body = *patch.Body
	}
	if patch.ResolverKey != nil {
		resolverKey = *patch.ResolverKey
	}
	if err := validateEntry(question, kind, body, resolverKey); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("knowledge entry updated", zap.String("entry_id", id))
	return updated, nil
}

// Remove deletes an entry. Sessions that already used it keep their replies;
// removal only stops future matches.
func (s *KnowledgeService) Remove(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.Info("knowledge entry removed", zap.String("entry_id", id))
	return nil
}

func validateEntry(question string, kind model.EntryKind, body, resolverKey string) error {
	if strings.TrimSpace(question) == "" {
		return errs.Validation("question", "must not be empty")
	}
	switch kind {
	case model.EntryStatic:
		if strings.TrimSpace(body) == "" {
			return errs.Validation("body", "must not be empty for a static entry")
		}
	case model.EntryDynamic:
		if strings.TrimSpace(resolverKey) == "" {
			return errs.Validation("resolver_key", "must not be empty for a dynamic entry")
		}
	default:
		return errs.Validation("kind", "must be static or dynamic")
	}
	return nil
}
