package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"gorm.io/gorm"
)

// EventPublisher publishes catalog events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// CatalogService orchestrates product commands and owns the transaction
// boundary around image-set replacement. It holds the gorm.DB only to begin
// and end transactions; all row writes go through the repositories.
type CatalogService struct {
	db       *gorm.DB
	products repositories.ProductRepository
	images   repositories.ImageRepository
	resolver *LookupResolver
	mq       EventPublisher
}

// NewCatalogService creates a new CatalogService. mq may be nil, in which
// case event publication is skipped.
func NewCatalogService(db *gorm.DB, products repositories.ProductRepository, images repositories.ImageRepository, mq EventPublisher) *CatalogService {
	return &CatalogService{
		db:       db,
		products: products,
		images:   images,
		resolver: NewLookupResolver(products),
		mq:       mq,
	}
}

// Create persists a new product owned by the given user, with the image URLs
// cascaded in as child rows of the product's own insert.
func (s *CatalogService) Create(product *models.Product, imageURLs []string, owner *models.User) (*models.FlatProduct, error) {
	product.Images = s.images.AttachNew(imageURLs)
	product.UserID = owner.ID
	product.User = *owner

	if err := s.products.Insert(product); err != nil {
		return nil, s.translate(err)
	}

	s.publish("product.created", map[string]interface{}{
		"productID": product.ID,
		"title":     product.Title,
		"slug":      product.Slug,
		"ownerID":   product.UserID,
	})

	return product.Flatten(), nil
}

// FindByTerm resolves a term (id, title, or slug) to a single flattened
// product.
func (s *CatalogService) FindByTerm(term string) (*models.FlatProduct, error) {
	product, err := s.resolver.Resolve(term)
	if err != nil {
		return nil, s.translate(err)
	}
	return product.Flatten(), nil
}

// ListPage returns up to limit products skipping offset, flattened. An empty
// page is an error, matching the store's contract.
func (s *CatalogService) ListPage(limit, offset int) ([]*models.FlatProduct, error) {
	products, err := s.products.ListPage(limit, offset)
	if err != nil {
		return nil, s.translate(err)
	}
	flat := make([]*models.FlatProduct, 0, len(products))
	for i := range products {
		flat = append(flat, products[i].Flatten())
	}
	return flat, nil
}

// Update applies a partial field replacement to the product identified by id,
// optionally replacing its whole image set, and re-stamps the owner. The
// image replacement and the product save run in one transaction: on any
// failure the transaction is rolled back before the error propagates, so the
// product never references a partial image set. The returned product is
// re-fetched from committed state to surface the derived slug.
func (s *CatalogService) Update(id string, patch *models.ProductPatch, owner *models.User) (*models.FlatProduct, error) {
	product, err := s.products.Preload(id, patch)
	if err != nil {
		return nil, s.translate(err)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, s.translate(fmt.Errorf("failed to begin transaction: %w", tx.Error))
	}

	if patch != nil && patch.Images != nil {
		images, err := s.images.ReplaceAll(tx, id, *patch.Images)
		if err != nil {
			tx.Rollback()
			return nil, s.translate(err)
		}
		product.Images = images
	}

	// Ownership is always re-stamped on update, even if unchanged.
	product.UserID = owner.ID
	product.User = *owner

	if err := s.products.Save(tx, product); err != nil {
		tx.Rollback()
		return nil, s.translate(err)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, s.translate(fmt.Errorf("failed to commit update of product %s: %w", id, err))
	}

	s.publish("product.updated", map[string]interface{}{
		"productID": product.ID,
		"ownerID":   product.UserID,
	})

	fresh, err := s.products.FindByID(id)
	if err != nil {
		return nil, s.translate(err)
	}
	return fresh.Flatten(), nil
}

// Remove verifies the product exists, deletes it with its images, and reports
// a zero-row delete as ErrDeleteFailed instead of swallowing the race.
func (s *CatalogService) Remove(id string) error {
	if _, err := s.resolver.Resolve(id); err != nil {
		return s.translate(err)
	}

	affected, err := s.products.DeleteByID(id)
	if err != nil {
		return s.translate(err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s", ErrDeleteFailed, id)
	}

	s.publish("product.deleted", map[string]interface{}{
		"productID": id,
	})
	return nil
}

// translate maps storage errors onto the service taxonomy. Known sentinels
// pass through; anything else is logged with full detail and surfaced as an
// opaque internal error.
func (s *CatalogService) translate(err error) error {
	if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrConflict) {
		return err
	}
	log.Printf("catalog service: unexpected storage error: %v", err)
	return ErrInternal
}

// publish sends a catalog event, best effort. A publish failure never fails
// the command that triggered it.
func (s *CatalogService) publish(routingKey string, payload map[string]interface{}) {
	if s.mq == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mq.Publish("catalog", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
