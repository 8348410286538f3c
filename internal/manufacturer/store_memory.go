package manufacturer

import (
	"context"
	"sync"

	id "authchain/pkg/domain"
	"authchain/pkg/platform/sentinel"
)

type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[id.Account]Profile
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[id.Account]Profile)}
}

func (s *InMemoryProfileStore) Save(_ context.Context, profile *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.Account] = *profile
	return nil
}

func (s *InMemoryProfileStore) Find(_ context.Context, account id.Account) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.profiles[account]; ok {
		copied := profile
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}
