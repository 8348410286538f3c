package inventory

import (
	"context"
	"sync"

	id "authchain/pkg/domain"
	"authchain/pkg/platform/sentinel"
)

type InMemoryProductStore struct {
	mu       sync.RWMutex
	products map[id.ProductCode]Product
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{products: make(map[id.ProductCode]Product)}
}

func (s *InMemoryProductStore) Save(_ context.Context, product *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.Code] = *product
	return nil
}

func (s *InMemoryProductStore) Find(_ context.Context, code id.ProductCode) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if product, ok := s.products[code]; ok {
		copied := product
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}
