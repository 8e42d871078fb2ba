package repositories

import (
	"catalog/internal/models"

	"gorm.io/gorm"
)

// ImageRepository defines the interface for product image data access.
// Image rows are never written outside a product write: AttachNew feeds the
// cascade insert of a create, ReplaceAll runs inside an update transaction.
type ImageRepository interface {
	// ReplaceAll deletes every image row owned by productID and inserts one
	// new row per URL in input order, all against the given transaction.
	// It must never be called outside an active transaction: a reader must
	// not be able to observe the product between delete and insert.
	ReplaceAll(tx *gorm.DB, productID string, urls []string) ([]models.ProductImage, error)
	// AttachNew builds unsaved image values to be cascaded in with the parent
	// product's own insert.
	AttachNew(urls []string) []models.ProductImage
}
