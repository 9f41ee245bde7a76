package gorm

import (
	"context"
	"fmt"

	"github.com/barekit/shopqa/pkg/catalog"
	"github.com/barekit/shopqa/pkg/catalog/consts"
	"gorm.io/gorm"
)

// Catalog implements catalog.Source on top of any GORM dialect.
type Catalog struct {
	db *gorm.DB
}

// ProductModel represents the database schema for a product.
type ProductModel struct {
	ID          int64 `gorm:"primaryKey;autoIncrement:false"`
	Name        string
	Description string
	Category    string `gorm:"index"`
	Price       int64
	Stock       int64
	Image       string
}

// TableName overrides the table name.
func (ProductModel) TableName() string {
	return consts.TableNameProducts
}

// New creates a new Catalog. The products table is migrated so a fresh
// database can be seeded with Save.
func New(db *gorm.DB) (*Catalog, error) {
	if err := db.AutoMigrate(&ProductModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Products loads every product ordered by id.
func (c *Catalog) Products(ctx context.Context) ([]catalog.Product, error) {
	var models []ProductModel
	if err := c.db.WithContext(ctx).Order(consts.ColID + " asc").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	products := make([]catalog.Product, len(models))
	for i, m := range models {
		products[i] = catalog.Product{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Category:    m.Category,
			Price:       m.Price,
			Stock:       m.Stock,
			Image:       m.Image,
		}
	}
	return products, nil
}

// Save inserts or replaces products. It is used to seed a catalog database.
func (c *Catalog) Save(ctx context.Context, products []catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	models := make([]ProductModel, len(products))
	for i, p := range products {
		models[i] = ProductModel{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
			Stock:       p.Stock,
			Image:       p.Image,
		}
	}
	return c.db.WithContext(ctx).Save(&models).Error
}

// Close releases the underlying connection pool.
func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
