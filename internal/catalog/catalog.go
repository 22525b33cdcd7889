// Package catalog exposes the hosting plan catalog as an injected read-only
// repository so the data source can be swapped without touching the order
// engine.
package catalog

import (
	"orbitcloud/internal/domain"
	"orbitcloud/internal/models"
)

type Repository interface {
	// All returns the full catalog grouped by category.
	All() models.Catalog
	// FindByID scans every category and returns the first product with a
	// matching id, or nil.
	FindByID(id string) *models.Product
}

// StaticRepository serves a fixed in-memory catalog.
type StaticRepository struct {
	catalog models.Catalog
}

func NewStaticRepository(c models.Catalog) *StaticRepository {
	return &StaticRepository{catalog: c}
}

func (r *StaticRepository) All() models.Catalog {
	return r.catalog
}

func (r *StaticRepository) FindByID(id string) *models.Product {
	for _, products := range r.catalog {
		for i := range products {
			if products[i].ID == id {
				p := products[i]
				return &p
			}
		}
	}
	return nil
}

// Default is the stock OrbitCloud plan list.
func Default() models.Catalog {
	return models.Catalog{
		domain.CategoryLinux: {
			{ID: "linux_1", Name: "Nano Linux", Price: 15000, RAM: 1024, Disk: 2048, CPU: 50, Extra: "Slot: 30 Players", Category: domain.CategoryLinux},
			{ID: "linux_2", Name: "Mega Linux", Price: 35000, RAM: 2048, Disk: 5120, CPU: 100, Extra: "Slot: 100 Players", Category: domain.CategoryLinux},
			{ID: "linux_3", Name: "Giga Linux", Price: 65000, RAM: 4096, Disk: 10240, CPU: 200, Extra: "Slot: Unlimited", Category: domain.CategoryLinux},
		},
		domain.CategoryWindows: {
			{ID: "win_1", Name: "Starter Win", Price: 45000, RAM: 2048, Disk: 15360, CPU: 100, Extra: "RDP Access", Category: domain.CategoryWindows},
			{ID: "win_2", Name: "Pro Win", Price: 85000, RAM: 4096, Disk: 25600, CPU: 200, Extra: "RDP + Admin", Category: domain.CategoryWindows},
		},
		domain.CategoryNodeJS: {
			{ID: "node_1", Name: "Bot Starter", Price: 10000, RAM: 512, Disk: 1024, CPU: 40, Extra: "NPM Support", Category: domain.CategoryNodeJS},
			{ID: "node_2", Name: "Bot Pro", Price: 25000, RAM: 1024, Disk: 2048, CPU: 80, Extra: "NPM + PM2", Category: domain.CategoryNodeJS},
			{ID: "node_3", Name: "Bot Master", Price: 50000, RAM: 2048, Disk: 5120, CPU: 150, Extra: "Priority Support", Category: domain.CategoryNodeJS},
		},
	}
}
