package custody

import (
	"context"
	"sort"
	"sync"

	id "authchain/pkg/domain"
	"authchain/pkg/platform/sentinel"
)

type InMemoryRetailerStore struct {
	mu       sync.RWMutex
	profiles map[id.Account]RetailerProfile
}

func NewInMemoryRetailerStore() *InMemoryRetailerStore {
	return &InMemoryRetailerStore{profiles: make(map[id.Account]RetailerProfile)}
}

func (s *InMemoryRetailerStore) Save(_ context.Context, profile *RetailerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.Account] = *profile
	return nil
}

func (s *InMemoryRetailerStore) Find(_ context.Context, account id.Account) (*RetailerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.profiles[account]; ok {
		copied := profile
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

type InMemoryPersonnelStore struct {
	mu      sync.RWMutex
	records map[id.Account]LogisticsPersonnel
}

func NewInMemoryPersonnelStore() *InMemoryPersonnelStore {
	return &InMemoryPersonnelStore{records: make(map[id.Account]LogisticsPersonnel)}
}

func (s *InMemoryPersonnelStore) Save(_ context.Context, record *LogisticsPersonnel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Account] = *record
	return nil
}

func (s *InMemoryPersonnelStore) Find(_ context.Context, account id.Account) (*LogisticsPersonnel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[account]; ok {
		copied := record
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

type holdingKey struct {
	code     id.ProductCode
	retailer id.Account
}

type InMemoryHoldingStore struct {
	mu       sync.RWMutex
	holdings map[holdingKey]Holding
}

func NewInMemoryHoldingStore() *InMemoryHoldingStore {
	return &InMemoryHoldingStore{holdings: make(map[holdingKey]Holding)}
}

func (s *InMemoryHoldingStore) Save(_ context.Context, holding *Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings[holdingKey{holding.Code, holding.Retailer}] = *holding
	return nil
}

func (s *InMemoryHoldingStore) Find(_ context.Context, code id.ProductCode, retailer id.Account) (*Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if holding, ok := s.holdings[holdingKey{code, retailer}]; ok {
		copied := holding
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryHoldingStore) ListByProduct(_ context.Context, code id.ProductCode) ([]Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Holding
	for key, holding := range s.holdings {
		if key.code == code {
			out = append(out, holding)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Retailer < out[j].Retailer })
	return out, nil
}

type InMemoryTransferStore struct {
	mu        sync.RWMutex
	transfers []Transfer
}

func NewInMemoryTransferStore() *InMemoryTransferStore {
	return &InMemoryTransferStore{}
}

func (s *InMemoryTransferStore) Append(_ context.Context, transfer *Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = append(s.transfers, *transfer)
	return nil
}

func (s *InMemoryTransferStore) ListByProduct(_ context.Context, code id.ProductCode) ([]Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Transfer
	for _, transfer := range s.transfers {
		if transfer.Code == code {
			out = append(out, transfer)
		}
	}
	return out, nil
}
