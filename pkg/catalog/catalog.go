package catalog

import (
	"context"
	"fmt"
	"strconv"
)

// Product is a single catalog record. It is owned by the catalog source and is
// read-only to the indexing pipeline.
type Product struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Price       int64  `json:"price" yaml:"price"`
	// Stock of zero and an absent stock are treated the same downstream.
	Stock int64  `json:"stock,omitempty" yaml:"stock,omitempty"`
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Metadata keys stored alongside every index entry.
const (
	KeyName        = "name"
	KeyDescription = "description"
	KeyCategory    = "category"
	KeyPrice       = "price"
	KeyStock       = "stock"
)

// Source is an ordered, read-only collection of products.
type Source interface {
	// Products returns every product in catalog order.
	Products(ctx context.Context) ([]Product, error)
}

// Key returns the index entry id for the product.
func (p Product) Key() string {
	return strconv.FormatInt(p.ID, 10)
}

// Text renders the canonical text that gets embedded for the product.
// Price and stock are included so that questions about them retrieve well.
func (p Product) Text() string {
	return fmt.Sprintf("Nombre: %s\nDescripción: %s\nCategoría: %s\nPrecio: $%d\nStock: %d",
		p.Name, p.Description, p.Category, p.Price, p.Stock)
}

// Metadata returns the payload stored with the product's index entry.
// Numbers are stringified so every value has the same storage type.
func (p Product) Metadata() map[string]string {
	return map[string]string{
		KeyName:        p.Name,
		KeyDescription: p.Description,
		KeyCategory:    p.Category,
		KeyPrice:       strconv.FormatInt(p.Price, 10),
		KeyStock:       strconv.FormatInt(p.Stock, 10),
	}
}

// Validate reports whether the product can be turned into an index entry.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("product id must be positive, got %d", p.ID)
	}
	return nil
}
