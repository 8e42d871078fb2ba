package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"catalog/internal/models"
	"catalog/internal/slug"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InMemoryProductRepository is an in-memory implementation of
// ProductRepository for tests. The transaction handle passed to Save is
// ignored; rows are ordered by id like the GORM implementation.
type InMemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

func (r *InMemoryProductRepository) sortedLocked() []models.Product {
	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (r *InMemoryProductRepository) conflictsLocked(p *models.Product) bool {
	for _, existing := range r.products {
		if existing.ID == p.ID {
			continue
		}
		if existing.Title == p.Title || existing.Slug == p.Slug {
			return true
		}
	}
	return false
}

// Insert adds a new product, deriving its slug from the title.
func (r *InMemoryProductRepository) Insert(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.Slug = slug.Derive(product.Title)
	if r.conflictsLocked(product) {
		return fmt.Errorf("%w: title %q", ErrConflict, product.Title)
	}
	r.products[product.ID] = *product
	return nil
}

// Preload returns a copy of the row with the patch merged in memory.
func (r *InMemoryProductRepository) Preload(id string, patch *models.ProductPatch) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product with ID %s", ErrNotFound, id)
	}
	product.Images = nil
	if patch != nil {
		patch.Apply(&product)
	}
	return &product, nil
}

// Save overwrites the stored row, recomputing the slug from the title.
func (r *InMemoryProductRepository) Save(_ *gorm.DB, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("%w: product with ID %s", ErrNotFound, product.ID)
	}
	product.Slug = slug.Derive(product.Title)
	if r.conflictsLocked(product) {
		return fmt.Errorf("%w: title %q", ErrConflict, product.Title)
	}
	stored := r.products[product.ID]
	if product.Images == nil {
		product.Images = stored.Images
	}
	r.products[product.ID] = *product
	return nil
}

// DeleteByID removes the row and its images, reporting the affected count.
func (r *InMemoryProductRepository) DeleteByID(id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	return 1, nil
}

// ListPage returns up to limit products skipping offset, ordered by id.
func (r *InMemoryProductRepository) ListPage(limit, offset int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.sortedLocked()
	if offset >= len(list) {
		return nil, fmt.Errorf("%w: no products in range", ErrNotFound)
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	page := list[offset:end]
	if len(page) == 0 {
		return nil, fmt.Errorf("%w: no products in range", ErrNotFound)
	}
	return page, nil
}

// FindByID returns a copy of the product.
func (r *InMemoryProductRepository) FindByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product with ID %s", ErrNotFound, id)
	}
	return &product, nil
}

// FindByTitleOrSlug matches the title case-insensitively or the slug against
// the lowered term, returning the first match by id order.
func (r *InMemoryProductRepository) FindByTitleOrSlug(term string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.sortedLocked() {
		if strings.EqualFold(p.Title, term) || p.Slug == strings.ToLower(term) {
			product := p
			return &product, nil
		}
	}
	return nil, fmt.Errorf("%w: product matching %q", ErrNotFound, term)
}
