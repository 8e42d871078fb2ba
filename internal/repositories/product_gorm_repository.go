package repositories

import (
	"errors"
	"fmt"
	"strings"

	"catalog/internal/models"
	"catalog/internal/slug"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// It expects the gorm.DB to be opened with TranslateError so duplicate-key
// failures surface as gorm.ErrDuplicatedKey regardless of the driver.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Insert persists a new product row. The slug is always derived from the
// title here, overwriting whatever the caller supplied.
func (r *GORMProductRepository) Insert(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.Slug = slug.Derive(product.Title)
	if err := r.db.Omit("User").Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: title %q", ErrConflict, product.Title)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Preload reads the product identified by id and merges the patch onto it
// in memory. Nothing is written; the image relation is left unloaded so a
// later Save without image replacement cannot touch it.
func (r *GORMProductRepository) Preload(id string, patch *models.ProductPatch) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product with ID %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to preload product %s: %w", id, err)
	}
	if patch != nil {
		patch.Apply(&product)
	}
	return &product, nil
}

// Save writes a fully-merged product inside the caller's transaction. The
// slug is recomputed from the current title on every save, mirroring the
// derivation done on insert.
func (r *GORMProductRepository) Save(tx *gorm.DB, product *models.Product) error {
	product.Slug = slug.Derive(product.Title)
	if err := tx.Omit("User").Save(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: title %q", ErrConflict, product.Title)
		}
		return fmt.Errorf("failed to save product %s: %w", product.ID, err)
	}
	return nil
}

// DeleteByID removes the product row and cascades deletion of its image
// children in one transaction. The returned count reflects product rows only.
func (r *GORMProductRepository) DeleteByID(id string) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images of product %s: %w", id, err)
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product %s: %w", id, res.Error)
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

// ListPage returns up to limit products skipping offset, images attached,
// ordered by id so pagination is stable. An empty page is reported as
// ErrNotFound rather than an empty slice.
func (r *GORMProductRepository) ListPage(limit, offset int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Order("id").Limit(limit).Offset(offset).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: no products in range", ErrNotFound)
	}
	return products, nil
}

// FindByID retrieves a single product with its images.
func (r *GORMProductRepository) FindByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product with ID %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// FindByTitleOrSlug matches the term case-insensitively against the title or
// exactly against the slug. The asymmetry (title upper-cased, slug
// lower-cased) is intentional and must not be normalized away. Ordering by id
// makes a multi-row match deterministic.
func (r *GORMProductRepository) FindByTitleOrSlug(term string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Where("UPPER(title) = ? OR slug = ?", strings.ToUpper(term), strings.ToLower(term)).
		Order("id").First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product matching %q", ErrNotFound, term)
		}
		return nil, fmt.Errorf("failed to find product by term %q: %w", term, err)
	}
	return &product, nil
}
