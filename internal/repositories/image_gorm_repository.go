package repositories

import (
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMImageRepository is a GORM implementation of ImageRepository.
type GORMImageRepository struct{}

// NewGORMImageRepository creates a new instance of GORMImageRepository.
func NewGORMImageRepository() *GORMImageRepository {
	return &GORMImageRepository{}
}

// ReplaceAll swaps the whole image set of a product inside the caller's
// transaction. Insertion order follows input order, so the autoincrement ids
// preserve the caller's ordering.
func (r *GORMImageRepository) ReplaceAll(tx *gorm.DB, productID string, urls []string) ([]models.ProductImage, error) {
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete images of product %s: %w", productID, err)
	}
	images := make([]models.ProductImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, models.ProductImage{URL: url, ProductID: productID})
	}
	if len(images) > 0 {
		if err := tx.Create(&images).Error; err != nil {
			return nil, fmt.Errorf("failed to insert images of product %s: %w", productID, err)
		}
	}
	return images, nil
}

// AttachNew builds unsaved image values for cascade insert with the parent.
func (r *GORMImageRepository) AttachNew(urls []string) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, models.ProductImage{URL: url})
	}
	return images
}
