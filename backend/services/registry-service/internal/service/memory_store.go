package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"chargesol/backend/services/registry-service/internal/models"
)

// MemoryDraftStore keeps drafts in process. It is meant for single instance
// development setups without redis; entries expire after ttl.
type MemoryDraftStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryDraftStore returns an in-process store.
func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Save stores a copy of the session and refreshes its expiry. Expired
// entries of other sessions are dropped on the way.
func (m *MemoryDraftStore) Save(_ context.Context, session *models.DraftSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	m.entries[session.ID] = memoryEntry{data: data, expiresAt: now.Add(m.ttl)}
	return nil
}

func (m *MemoryDraftStore) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
}

// Load returns a copy of the session or models.ErrDraftNotFound.
func (m *MemoryDraftStore) Load(_ context.Context, id string) (*models.DraftSession, error) {
	m.mu.Lock()
	entry, ok := m.entries[id]
	if ok && m.ttl > 0 && !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, models.ErrDraftNotFound
	}

	var session models.DraftSession
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes the session.
func (m *MemoryDraftStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
