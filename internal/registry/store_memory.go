package registry

import (
	"context"
	"sync"

	id "authchain/pkg/domain"
	"authchain/pkg/platform/sentinel"
)

// In-memory stores keep the default deployment lightweight and testable.

type InMemoryRoleStore struct {
	mu    sync.RWMutex
	roles map[id.Account]id.Role
}

func NewInMemoryRoleStore() *InMemoryRoleStore {
	return &InMemoryRoleStore{roles: make(map[id.Account]id.Role)}
}

func (s *InMemoryRoleStore) Role(_ context.Context, account id.Account) (id.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles[account], nil
}

func (s *InMemoryRoleStore) SetRole(_ context.Context, account id.Account, role id.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[account] = role
	return nil
}

type InMemoryAdminStore struct {
	mu     sync.RWMutex
	admins map[id.Account]AdminRecord
}

func NewInMemoryAdminStore() *InMemoryAdminStore {
	return &InMemoryAdminStore{admins: make(map[id.Account]AdminRecord)}
}

func (s *InMemoryAdminStore) Save(_ context.Context, record AdminRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[record.Account] = record
	return nil
}

func (s *InMemoryAdminStore) Find(_ context.Context, account id.Account) (AdminRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.admins[account]; ok {
		return record, nil
	}
	return AdminRecord{}, sentinel.ErrNotFound
}

func (s *InMemoryAdminStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.admins), nil
}
