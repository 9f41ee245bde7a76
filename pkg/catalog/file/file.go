package file

import (
	"context"
	"fmt"
	"os"

	"github.com/barekit/shopqa/pkg/catalog"
	"gopkg.in/yaml.v3"
)

// FileCatalog implements catalog.Source over a fixed list of products,
// usually loaded from a YAML or JSON file.
type FileCatalog struct {
	products []catalog.Product
}

// New creates a catalog from an in-memory product list.
func New(products []catalog.Product) *FileCatalog {
	cp := make([]catalog.Product, len(products))
	copy(cp, products)
	return &FileCatalog{products: cp}
}

// Load reads a product list from path. JSON documents are accepted too since
// they are valid YAML.
func Load(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var products []catalog.Product
	if err := yaml.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return New(products), nil
}

// Products returns a copy of the product list in file order.
func (c *FileCatalog) Products(ctx context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}
