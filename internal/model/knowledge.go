package model

import "time"

// EntryKind distinguishes a canned answer from one produced by a registered
// resolver function.
type EntryKind string

const (
	EntryStatic  EntryKind = "static"
	EntryDynamic EntryKind = "dynamic"
)

// KnowledgeEntry is a curated question-pattern/resolution pair. Static entries
// carry the answer in Body; dynamic entries name a resolver in ResolverKey.
// Position only orders the "quick questions" display, it carries no matching
// priority.
type KnowledgeEntry struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Kind        EntryKind `gorm:"type:varchar(16);not null" json:"kind"`
	Body        string    `gorm:"type:text" json:"body,omitempty"`
	ResolverKey string    `gorm:"type:varchar(64)" json:"resolver_key,omitempty"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName maps entries onto the knowledge_entries collection.
func (KnowledgeEntry) TableName() string { return "knowledge_entries" }

// KnowledgeEntryPatch carries admin updates; nil fields are left unchanged.
type KnowledgeEntryPatch struct {
	Question    *string    `json:"question,omitempty"`
	Kind        *EntryKind `json:"kind,omitempty"`
	Body        *string    `json:"body,omitempty"`
	ResolverKey *string    `json:"resolver_key,omitempty"`
	Position    *int       `json:"position,omitempty"`
}
