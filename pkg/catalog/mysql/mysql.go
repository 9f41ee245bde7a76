package mysql

import (
	"fmt"

	gormcat "github.com/barekit/shopqa/pkg/catalog/gorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// New opens a MySQL product catalog. dsn follows go-sql-driver/mysql, e.g.
// "shop:shop@tcp(localhost:3306)/shop?parseTime=true".
func New(dsn string) (*gormcat.Catalog, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	return gormcat.New(db)
}
