package bookmarks

import (
	"context"
	"sync"

	"github.com/bokjikok/bokjikok/internal/logger"
)

// Manager maintains the set of bookmarked item identifiers. Insertion order
// is preserved for display; membership checks go through a map. Every
// mutation is written through to the Store, but storage failures only
// degrade persistence, they never fail the operation or surface to the user.
type Manager struct {
	store Store
	log   logger.Logger

	mu     sync.Mutex
	order  []string
	member map[string]bool
}

// NewManager loads the persisted set and returns a ready manager. An absent
// or unreadable store yields an empty set.
func NewManager(ctx context.Context, store Store, log logger.Logger) *Manager {
	m := &Manager{
		store:  store,
		log:    log,
		member: make(map[string]bool),
	}

	ids, err := store.Load(ctx)
	if err != nil {
		log.Warn("bookmark store unavailable, starting empty", logger.Error(err))
		ids = nil
	}
	for _, id := range ids {
		if id == "" || m.member[id] {
			continue
		}
		m.order = append(m.order, id)
		m.member[id] = true
	}
	return m
}

// Toggle flips membership for itemID and reports the new state. The updated
// set is persisted before the call returns; persistence failure is logged
// and swallowed.
func (m *Manager) Toggle(ctx context.Context, itemID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.member[itemID] {
		delete(m.member, itemID)
		for i, id := range m.order {
			if id == itemID {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	} else {
		m.member[itemID] = true
		m.order = append(m.order, itemID)
	}

	if err := m.store.Save(ctx, append([]string(nil), m.order...)); err != nil {
		m.log.Warn("failed to persist bookmarks", logger.Error(err))
	}
	return m.member[itemID]
}

// IsBookmarked is a pure membership query.
func (m *Manager) IsBookmarked(itemID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.member[itemID]
}

// List returns the bookmarked identifiers in insertion order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// Set returns membership as a lookup map, for callers that filter catalogs.
func (m *Manager) Set() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]bool, len(m.member))
	for id := range m.member {
		out[id] = true
	}
	return out
}

// Count reports the number of bookmarked items.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// Clear empties the set, both in memory and in the store. Called on logout.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = nil
	m.member = make(map[string]bool)
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn("failed to clear bookmark store", logger.Error(err))
	}
}
