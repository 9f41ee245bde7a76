package neo4j

import (
	"context"
	"fmt"

	"github.com/barekit/shopqa/pkg/catalog"
	"github.com/barekit/shopqa/pkg/catalog/consts"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jCatalog reads products stored as (:Product) nodes.
type Neo4jCatalog struct {
	driver neo4j.DriverWithContext
	dbName string
}

// New creates a new Neo4jCatalog adapter.
func New(uri, username, password, dbName string) (*Neo4jCatalog, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	return &Neo4jCatalog{
		driver: driver,
		dbName: dbName,
	}, nil
}

func (c *Neo4jCatalog) Products(ctx context.Context) ([]catalog.Product, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.dbName,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
		MATCH (p:%s)
		RETURN p.%s AS %s, p.%s AS %s, p.%s AS %s, p.%s AS %s, p.%s AS %s, p.%s AS %s, p.%s AS %s
		ORDER BY p.%s ASC
		`, consts.LabelProduct,
			consts.ColID, consts.ColID,
			consts.ColName, consts.ColName,
			consts.ColDescription, consts.ColDescription,
			consts.ColCategory, consts.ColCategory,
			consts.ColPrice, consts.ColPrice,
			consts.ColStock, consts.ColStock,
			consts.ColImage, consts.ColImage,
			consts.ColID)

		result, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}

		var products []catalog.Product
		for result.Next(ctx) {
			products = append(products, productFromValues(result.Record().AsMap()))
		}
		if err := result.Err(); err != nil {
			return nil, err
		}

		return products, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	products, _ := result.([]catalog.Product)
	return products, nil
}

func (c *Neo4jCatalog) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// productFromValues maps a returned row onto a Product. Missing properties
// come back as nil and leave the zero value in place.
func productFromValues(values map[string]any) catalog.Product {
	return catalog.Product{
		ID:          asInt(values[consts.ColID]),
		Name:        asString(values[consts.ColName]),
		Description: asString(values[consts.ColDescription]),
		Category:    asString(values[consts.ColCategory]),
		Price:       asInt(values[consts.ColPrice]),
		Stock:       asInt(values[consts.ColStock]),
		Image:       asString(values[consts.ColImage]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}
