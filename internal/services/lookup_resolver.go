package services

import (
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/google/uuid"
)

// LookupResolver resolves a caller-supplied term to a single product. A term
// shaped like a UUID is looked up by identity; anything else is matched
// against the title (case-insensitive) or the slug (exact, lower-cased).
type LookupResolver struct {
	products repositories.ProductRepository
}

// NewLookupResolver creates a new LookupResolver.
func NewLookupResolver(products repositories.ProductRepository) *LookupResolver {
	return &LookupResolver{
		products: products,
	}
}

// Resolve returns the single product matching the term, images attached, or
// repositories.ErrNotFound.
func (r *LookupResolver) Resolve(term string) (*models.Product, error) {
	if uuid.Validate(term) == nil {
		return r.products.FindByID(term)
	}
	return r.products.FindByTitleOrSlug(term)
}
