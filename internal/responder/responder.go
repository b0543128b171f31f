// Package responder turns a matched knowledge entry into a bot reply.
package responder

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/pkg/logger"
)

// Resolver produces a dynamic answer for the given user, such as an order
// status lookup.
type Resolver func(ctx context.Context, userID string) (string, error)

// Registry holds the fixed set of named resolver functions dynamic knowledge
// entries may reference.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

// NewRegistry creates an empty resolver registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// Register binds a resolver under key, replacing any previous binding.
func (r *Registry) Register(key string, fn Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[key] = fn
}

func (r *Registry) lookup(key string) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.resolvers[key]
	return fn, ok
}

// Outcome classifies how a turn was answered, for metrics and logging.
type Outcome string

const (
	OutcomeStatic   Outcome = "static"
	OutcomeDynamic  Outcome = "dynamic"
	OutcomeNone     Outcome = "none"
	OutcomeDegraded Outcome = "degraded"
)

// Dispatcher resolves matched entries to reply text.
type Dispatcher struct {
	registry *Registry
	logger   *logger.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, log *logger.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: log}
}

// Resolve returns the reply for entry. Static entries return their body
// verbatim. Dynamic entries invoke the registered resolver; a missing
// registration fails with ErrUnknownResolver and a resolver failure is
// returned as-is for the caller to classify.
func (d *Dispatcher) Resolve(ctx context.Context, entry *model.KnowledgeEntry, userID string) (string, error) {
	if entry.Kind == model.EntryStatic {
		return entry.Body, nil
	}

	fn, ok := d.registry.lookup(entry.ResolverKey)
	if !ok {
		return "", fmt.Errorf("resolver %q: %w", entry.ResolverKey, errs.ErrUnknownResolver)
	}
	return fn(ctx, userID)
}

// Reply resolves entry and downgrades failures to user-facing text. The
// degraded texts are distinct from the no-match fallback: when the question
// was recognized but the lookup failed, the user must not be told it was
// unrecognized. A nil entry is the unmatched case and yields the escalation
// offer.
func (d *Dispatcher) Reply(ctx context.Context, entry *model.KnowledgeEntry, userID string) (string, Outcome) {
	if entry == nil {
		return FallbackNoMatch, OutcomeNone
	}

	text, err := d.Resolve(ctx, entry, userID)
	if err != nil {
		d.logger.Warn("resolver failed, degrading reply",
			zap.String("entry_id", entry.ID),
			zap.String("resolver_key", entry.ResolverKey),
			zap.Error(err),
		)
		return DegradedLookup, OutcomeDegraded
	}

	if entry.Kind == model.EntryDynamic {
		return text, OutcomeDynamic
	}
	return text, OutcomeStatic
}
