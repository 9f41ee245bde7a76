package postgres

import (
	"fmt"

	gormcat "github.com/barekit/shopqa/pkg/catalog/gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New opens a Postgres product catalog. dsn is a libpq string such as
// "host=localhost user=shop password=shop dbname=shop sslmode=disable".
func New(dsn string) (*gormcat.Catalog, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return gormcat.New(db)
}
