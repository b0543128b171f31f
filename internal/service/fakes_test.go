package service

import (
	"context"
	"sync"
	"time"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
)

// fakeSessionStore keeps sessions in memory and enforces the same optimistic
// version check the gorm store does.
type fakeSessionStore struct {
	mu           sync.Mutex
	sessions     map[string]*model.ChatSession
	saveErr      error
	conflictOnce bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.ChatSession)}
}

func (f *fakeSessionStore) Create(ctx context.Context, s *model.ChatSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*model.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *s
	cp.Messages = append([]model.Message(nil), s.Messages...)
	return &cp, nil
}

func (f *fakeSessionStore) LatestActive(ctx context.Context, ownerID string, now time.Time) (*model.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.ChatSession
	for _, s := range f.sessions {
		if s.OwnerID != ownerID || s.Status != model.SessionActive || s.Expired(now) {
			continue
		}
		if latest == nil || s.StartedAt.After(latest.StartedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, errs.ErrNotFound
	}
	cp := *latest
	cp.Messages = append([]model.Message(nil), latest.Messages...)
	return &cp, nil
}

func (f *fakeSessionStore) Save(ctx context.Context, s *model.ChatSession, expectedVersion int64) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	if f.conflictOnce {
		f.conflictOnce = false
		f.mu.Unlock()
		return errs.ErrVersionConflict
	}
	defer f.mu.Unlock()
	stored, ok := f.sessions[s.ID]
	if !ok {
		return errs.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return errs.ErrVersionConflict
	}
	s.Version = expectedVersion + 1
	cp := *s
	cp.Messages = append([]model.Message(nil), s.Messages...)
	f.sessions[s.ID] = &cp
	return nil
}

type fakeKnowledgeStore struct {
	mu      sync.Mutex
	entries []model.KnowledgeEntry
	listErr error
}

func (f *fakeKnowledgeStore) List(ctx context.Context) ([]model.KnowledgeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.KnowledgeEntry(nil), f.entries...), nil
}

func (f *fakeKnowledgeStore) Get(ctx context.Context, id string) (*model.KnowledgeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			cp := f.entries[i]
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeKnowledgeStore) Add(ctx context.Context, entry *model.KnowledgeEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeKnowledgeStore) Update(ctx context.Context, id string, patch model.KnowledgeEntryPatch) (*model.KnowledgeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID != id {
			continue
		}
		if patch.Question != nil {
			f.entries[i].Question = *patch.Question
		}
		if patch.Kind != nil {
			f.entries[i].Kind = *patch.Kind
		}
		if patch.Body != nil {
			f.entries[i].Body = *patch.Body
		}
		if patch.ResolverKey != nil {
			f.entries[i].ResolverKey = *patch.ResolverKey
		}
		if patch.Position != nil {
			f.entries[i].Position = *patch.Position
		}
		f.entries[i].UpdatedAt = time.Now()
		cp := f.entries[i]
		return &cp, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeKnowledgeStore) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

type fakeTicketStore struct {
	mu        sync.Mutex
	tickets   []model.SupportTicket
	createErr error
}

func (f *fakeTicketStore) Create(ctx context.Context, t *model.SupportTicket) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets = append(f.tickets, *t)
	return nil
}

func (f *fakeTicketStore) Get(ctx context.Context, id string) (*model.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			cp := f.tickets[i]
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeTicketStore) OpenBySession(ctx context.Context, sessionID string) (*model.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tickets {
		t := f.tickets[i]
		if t.Status == model.TicketOpen && t.SessionID != nil && *t.SessionID == sessionID {
			cp := t
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeTicketStore) List(ctx context.Context, ownerID string, status model.TicketStatus) ([]model.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.SupportTicket
	for _, t := range f.tickets {
		if ownerID != "" && t.OwnerID != ownerID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTicketStore) UpdateStatus(ctx context.Context, id string, status model.TicketStatus) (*model.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			f.tickets[i].Status = status
			cp := f.tickets[i]
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by phone
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUserStore) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[phone]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Create(ctx context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.Phone] = &cp
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []*model.SessionUpdateEvent
}

func (f *fakePublisher) PublishSessionUpdate(ctx context.Context, event *model.SessionUpdateEvent) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return uint64(len(f.events)), nil
}
