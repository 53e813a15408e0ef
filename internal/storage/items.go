package storage

import (
	"context"
	"items-api/internal/metrics"
	"items-api/internal/models"
	"sync"
)

// MemItemStore keeps items in insertion order. IDs are allocated as one past
// the highest id currently stored, so deleting the last item frees its id.
type MemItemStore struct {
	mu    sync.RWMutex
	items []models.Item
}

func NewMemItemStore(seed []models.Item) *MemItemStore {
	s := &MemItemStore{
		items: append([]models.Item(nil), seed...),
	}
	metrics.Items.Set(float64(len(s.items)))
	return s
}

func (s *MemItemStore) List(ctx context.Context) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]models.Item, 0, len(s.items)), s.items...), nil
}

func (s *MemItemStore) Get(ctx context.Context, id int) (models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Item{}, ErrItemNotFound
	}

	return s.items[idx], nil
}

func (s *MemItemStore) Create(ctx context.Context, input models.ItemInput) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := models.Item{
		ID:          s.nextID(),
		Name:        input.Name,
		Description: input.Description,
	}
	s.items = append(s.items, item)
	metrics.Items.Set(float64(len(s.items)))

	return item, nil
}

func (s *MemItemStore) Update(ctx context.Context, id int, input models.ItemInput) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Item{}, ErrItemNotFound
	}

	s.items[idx].Name = input.Name
	s.items[idx].Description = input.Description

	return s.items[idx], nil
}

func (s *MemItemStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	metrics.Items.Set(float64(len(s.items)))

	return nil
}

// callers must hold mu.
func (s *MemItemStore) indexOf(id int) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *MemItemStore) nextID() int {
	highest := 0
	for _, item := range s.items {
		if item.ID > highest {
			highest = item.ID
		}
	}
	return highest + 1
}
