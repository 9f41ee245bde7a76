package sqlite

import (
	"fmt"

	gormcat "github.com/barekit/shopqa/pkg/catalog/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens a SQLite product catalog. dsn is a file path such as
// "shop.db" or "file:shop.db?cache=shared".
func New(dsn string) (*gormcat.Catalog, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return gormcat.New(db)
}
