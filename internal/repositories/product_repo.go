package repositories

import (
	"catalog/internal/models"

	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data access.
//
// Save and the image store's ReplaceAll take the caller's transaction handle:
// the catalog service owns the transaction boundary and both writes must
// commit or roll back as one unit.
type ProductRepository interface {
	// Insert derives the slug from the title and persists a new row together
	// with any embedded images. Returns ErrConflict on a duplicate title or slug.
	Insert(product *models.Product) error
	// Preload reads the row identified by id and merges the patch onto it
	// without writing. Returns ErrNotFound if the id does not exist.
	Preload(id string, patch *models.ProductPatch) (*models.Product, error)
	// Save writes a fully-merged product inside the given transaction,
	// recomputing the slug from the current title first.
	Save(tx *gorm.DB, product *models.Product) error
	// DeleteByID removes the row and its image children, reporting how many
	// product rows were affected.
	DeleteByID(id string) (int64, error)
	// ListPage returns up to limit products skipping offset, images eagerly
	// attached, ordered by id. Returns ErrNotFound when the page is empty.
	ListPage(limit, offset int) ([]models.Product, error)
	FindByID(id string) (*models.Product, error)
	FindByTitleOrSlug(term string) (*models.Product, error)
}
