package models

import "time"

// Product represents a catalog product together with its owned images.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string         `json:"title" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,min=1"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;type:varchar(255);not null"`
	Price       float64        `json:"price" gorm:"default:0" validate:"gte=0"`
	Description string         `json:"description" gorm:"type:text"`
	Stock       int            `json:"stock" gorm:"default:0" validate:"gte=0"`
	Sizes       []string       `json:"sizes" gorm:"serializer:json"`
	Gender      string         `json:"gender" gorm:"type:varchar(50)" validate:"required"`
	Tags        []string       `json:"tags" gorm:"serializer:json"`
	UserID      string         `json:"-" gorm:"type:varchar(36);not null;index"`
	User        User           `json:"user" gorm:"foreignKey:UserID"`
	Images      []ProductImage `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProductImage is a single image row owned exclusively by one product.
// Rows are only ever written as children of a product write: cascaded in on
// create, or replaced wholesale inside the update transaction.
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	URL       string `json:"url" gorm:"type:text;not null"`
	ProductID string `json:"-" gorm:"type:varchar(36);not null;index"`
}

// FlatProduct is the outward shape of a product: image entities flattened to
// plain URL strings.
type FlatProduct struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Stock       int       `json:"stock"`
	Sizes       []string  `json:"sizes"`
	Gender      string    `json:"gender"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Flatten converts the product's image relation into plain URL strings.
func (p *Product) Flatten() *FlatProduct {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return &FlatProduct{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Price:       p.Price,
		Description: p.Description,
		Stock:       p.Stock,
		Sizes:       p.Sizes,
		Gender:      p.Gender,
		Tags:        p.Tags,
		Images:      urls,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductPatch carries the partial field replacement of an update command.
// Nil fields are left untouched. Images is not applied by Apply because
// replacing the image set requires its own transactional steps.
type ProductPatch struct {
	Title       *string
	Price       *float64
	Description *string
	Stock       *int
	Sizes       *[]string
	Gender      *string
	Tags        *[]string
	Images      *[]string
}

// Apply merges the non-nil patch fields onto the product.
func (c *ProductPatch) Apply(product *Product) {
	if c.Title != nil {
		product.Title = *c.Title
	}
	if c.Price != nil {
		product.Price = *c.Price
	}
	if c.Description != nil {
		product.Description = *c.Description
	}
	if c.Stock != nil {
		product.Stock = *c.Stock
	}
	if c.Sizes != nil {
		product.Sizes = *c.Sizes
	}
	if c.Gender != nil {
		product.Gender = *c.Gender
	}
	if c.Tags != nil {
		product.Tags = *c.Tags
	}
}
