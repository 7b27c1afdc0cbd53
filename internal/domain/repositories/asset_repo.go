package repositories

import "media-orchestrator/internal/domain/entities"

type AssetRepository interface {
	Save(asset entities.Asset)
	Get(id string) (entities.Asset, bool)
	// Update applies fn under the repository lock and returns the result.
	Update(id string, fn func(a *entities.Asset)) (entities.Asset, bool)
	Delete(id string) (entities.Asset, bool)
	List() []entities.Asset
	Count() int
}
