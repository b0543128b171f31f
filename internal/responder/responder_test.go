package responder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/pkg/logger"
)

type fakeOrderStore struct {
	latest *model.Order
	err    error
}

func (f *fakeOrderStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Order, error) {
	if f.latest == nil {
		return nil, f.err
	}
	return []model.Order{*f.latest}, f.err
}

func (f *fakeOrderStore) LatestByOwner(ctx context.Context, ownerID string) (*model.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.latest, nil
}

func newDispatcher(registry *Registry) *Dispatcher {
	return NewDispatcher(registry, logger.NewNop())
}

func TestResolveStaticReturnsBodyVerbatim(t *testing.T) {
	d := newDispatcher(NewRegistry())
	entry := &model.KnowledgeEntry{Kind: model.EntryStatic, Body: "Check charging port."}

	text, err := d.Resolve(context.Background(), entry, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Check charging port.", text)
}

func TestResolveUnknownResolver(t *testing.T) {
	d := newDispatcher(NewRegistry())
	entry := &model.KnowledgeEntry{Kind: model.EntryDynamic, ResolverKey: "nope"}

	_, err := d.Resolve(context.Background(), entry, "u1")
	assert.ErrorIs(t, err, errs.ErrUnknownResolver)
}

func TestReplyNilEntryIsNoMatchFallback(t *testing.T) {
	d := newDispatcher(NewRegistry())

	text, outcome := d.Reply(context.Background(), nil, "u1")
	assert.Equal(t, FallbackNoMatch, text)
	assert.Equal(t, OutcomeNone, outcome)
}

func TestReplyDowngradesResolverFailure(t *testing.T) {
	registry := NewRegistry()
	registry.Register("broken", func(ctx context.Context, userID string) (string, error) {
		return "", errs.Upstream("orders", errors.New("connection refused"))
	})
	d := newDispatcher(registry)
	entry := &model.KnowledgeEntry{Kind: model.EntryDynamic, ResolverKey: "broken"}

	text, outcome := d.Reply(context.Background(), entry, "u1")
	assert.Equal(t, OutcomeDegraded, outcome)
	assert.Equal(t, DegradedLookup, text)
	// The degraded text must never claim the question was unrecognized.
	assert.NotEqual(t, FallbackNoMatch, text)
}

func TestReplyDowngradesUnknownResolver(t *testing.T) {
	d := newDispatcher(NewRegistry())
	entry := &model.KnowledgeEntry{Kind: model.EntryDynamic, ResolverKey: "missing"}

	text, outcome := d.Reply(context.Background(), entry, "u1")
	assert.Equal(t, OutcomeDegraded, outcome)
	assert.Equal(t, DegradedLookup, text)
}

func TestOrderTrackingResolverFormatsShippedOrder(t *testing.T) {
	delivery := time.Date(2026, time.September, 14, 0, 0, 0, 0, time.UTC)
	orders := &fakeOrderStore{latest: &model.Order{
		ModelName:            "Volt X2",
		Status:               model.OrderShipped,
		ExpectedDeliveryDate: &delivery,
		CreatedAt:            time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
	}}

	fn := NewOrderTrackingResolver(orders)
	text, err := fn(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, text, "shipped")
	assert.Contains(t, text, "Monday, September 14, 2026")
	assert.Contains(t, text, "Volt X2")
}

func TestOrderTrackingResolverNoOrders(t *testing.T) {
	fn := NewOrderTrackingResolver(&fakeOrderStore{err: errs.ErrNotFound})

	text, err := fn(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, text, "don't see any orders")
}

func TestOrderTrackingResolverPropagatesUpstreamError(t *testing.T) {
	fn := NewOrderTrackingResolver(&fakeOrderStore{err: errs.Upstream("orders", errors.New("timeout"))})

	_, err := fn(context.Background(), "u1")
	assert.Error(t, err)
	assert.True(t, errs.IsUpstream(err))
}
