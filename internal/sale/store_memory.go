package sale

import (
	"context"
	"sort"
	"sync"

	id "authchain/pkg/domain"
	"authchain/pkg/platform/sentinel"
)

type InMemoryConsumerStore struct {
	mu       sync.RWMutex
	profiles map[id.Account]ConsumerProfile
}

func NewInMemoryConsumerStore() *InMemoryConsumerStore {
	return &InMemoryConsumerStore{profiles: make(map[id.Account]ConsumerProfile)}
}

func (s *InMemoryConsumerStore) Save(_ context.Context, profile *ConsumerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.Account] = *profile
	return nil
}

func (s *InMemoryConsumerStore) Find(_ context.Context, account id.Account) (*ConsumerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.profiles[account]; ok {
		copied := profile
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

type saleKey struct {
	code     id.ProductCode
	consumer id.Account
}

type InMemorySaleStore struct {
	mu      sync.RWMutex
	records map[saleKey]SaleRecord
}

func NewInMemorySaleStore() *InMemorySaleStore {
	return &InMemorySaleStore{records: make(map[saleKey]SaleRecord)}
}

func (s *InMemorySaleStore) Save(_ context.Context, record *SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[saleKey{record.Code, record.Consumer}] = *record
	return nil
}

func (s *InMemorySaleStore) Find(_ context.Context, code id.ProductCode, consumer id.Account) (*SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[saleKey{code, consumer}]; ok {
		copied := record
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemorySaleStore) ListByProduct(_ context.Context, code id.ProductCode) ([]SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SaleRecord
	for key, record := range s.records {
		if key.code == code {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Consumer < out[j].Consumer })
	return out, nil
}
