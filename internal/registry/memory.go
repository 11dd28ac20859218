package registry

import (
	"context"
	"sync"
)

// MemoryStore is a volatile in-process Store. Rules are lost on restart;
// that matches the original behavior and keeps tests hermetic.
type MemoryStore struct {
	mu    sync.RWMutex
	rules map[string]Rule
	// order preserves first-registration order of channel ids so that
	// FindByRepository scans deterministically.
	order []string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rules: make(map[string]Rule)}
}

// Upsert replaces any existing rule for the same channel. A replaced rule
// keeps its original position in the scan order.
func (s *MemoryStore) Upsert(_ context.Context, rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rules[rule.ChannelID]; !exists {
		s.order = append(s.order, rule.ChannelID)
	}
	s.rules[rule.ChannelID] = rule
	return nil
}

// FindByRepository returns the first registered rule matching fullName
// exactly. O(n) over registered rules; fine at the expected scale of tens
// of channels.
func (s *MemoryStore) FindByRepository(_ context.Context, fullName string) (Rule, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, channelID := range s.order {
		if rule := s.rules[channelID]; rule.Repo == fullName {
			return rule, true, nil
		}
	}
	return Rule{}, false, nil
}

// Len returns the number of registered rules.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}
