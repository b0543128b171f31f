package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scootcare/support-platform/internal/model"
)

func entries(questions ...string) []model.KnowledgeEntry {
	out := make([]model.KnowledgeEntry, len(questions))
	for i, q := range questions {
		out[i] = model.KnowledgeEntry{ID: q, Question: q, Kind: model.EntryStatic, Body: "answer for " + q}
	}
	return out
}

func TestMatchSharedToken(t *testing.T) {
	kb := entries("battery charge")

	got := Match("my battery won't charge", kb)
	require.NotNil(t, got)
	assert.Equal(t, "battery charge", got.Question)
}

func TestMatchNoOverlapReturnsNil(t *testing.T) {
	kb := entries("battery charge")

	assert.Nil(t, Match("purple elephant", kb))
}

func TestMatchEmptyQuery(t *testing.T) {
	kb := entries("battery charge", "brakes not working")

	assert.Nil(t, Match("", kb))
	assert.Nil(t, Match("   \t  ", kb))
}

func TestMatchEmptyEntries(t *testing.T) {
	assert.Nil(t, Match("battery", nil))
}

func TestMatchPicksHighestScore(t *testing.T) {
	kb := entries("battery charge", "battery charge port debris")

	got := Match("is there debris in my charge port", kb)
	require.NotNil(t, got)
	assert.Equal(t, "battery charge port debris", got.Question)
}

func TestMatchTieBreaksFirstSeen(t *testing.T) {
	kb := entries("battery issue", "battery problem")

	got := Match("battery", kb)
	require.NotNil(t, got)
	assert.Equal(t, "battery issue", got.Question)
}

func TestMatchCaseInsensitive(t *testing.T) {
	kb := entries("Brakes Not Working Properly")

	got := Match("BRAKES failing", kb)
	require.NotNil(t, got)
	assert.Equal(t, "Brakes Not Working Properly", got.Question)
}

func TestMatchSubstringContainmentBothDirections(t *testing.T) {
	// Query token contained in pattern token.
	require.NotNil(t, Match("charge", entries("charger problems")))
	// Pattern token contained in query token.
	require.NotNil(t, Match("recharging", entries("charging problems")))
}

func TestScore(t *testing.T) {
	assert.Equal(t, 2, Score("my battery won't charge", "battery charge"))
	assert.Equal(t, 0, Score("purple elephant", "battery charge"))
	assert.Equal(t, 0, Score("", "battery charge"))
}
