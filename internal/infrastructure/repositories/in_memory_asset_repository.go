package repositories

import (
	"sync"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/repositories"
)

type InMemoryAssetRepository struct {
	mu   sync.RWMutex
	data map[string]entities.Asset
}

func NewInMemoryAssetRepository() *InMemoryAssetRepository {
	return &InMemoryAssetRepository{
		data: make(map[string]entities.Asset),
	}
}

var _ repositories.AssetRepository = (*InMemoryAssetRepository)(nil)

func (r *InMemoryAssetRepository) Save(asset entities.Asset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[asset.ID] = asset
}

func (r *InMemoryAssetRepository) Get(id string) (entities.Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.data[id]
	return a, ok
}

func (r *InMemoryAssetRepository) Update(id string, fn func(a *entities.Asset)) (entities.Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return entities.Asset{}, false
	}
	fn(&a)
	r.data[id] = a
	return a, true
}

func (r *InMemoryAssetRepository) Delete(id string) (entities.Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if ok {
		delete(r.data, id)
	}
	return a, ok
}

func (r *InMemoryAssetRepository) List() []entities.Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.Asset, 0, len(r.data))
	for _, a := range r.data {
		out = append(out, a)
	}
	return out
}

func (r *InMemoryAssetRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
