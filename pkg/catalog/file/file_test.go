package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/barekit/shopqa/pkg/catalog"
)

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	data := `
- id: 2
  name: Mug
  description: Ceramic mug
  category: Hogar
  price: 1200
- id: 1
  name: T-Shirt
  description: Cotton tee
  category: Ropa
  price: 8999
  stock: 5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	products, err := c.Products(context.Background())
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}

	if len(products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(products))
	}
	// File order is catalog order.
	if products[0].ID != 2 || products[1].ID != 1 {
		t.Errorf("Unexpected order: %d, %d", products[0].ID, products[1].ID)
	}
	if products[0].Stock != 0 || products[1].Stock != 5 {
		t.Errorf("Unexpected stock values: %d, %d", products[0].Stock, products[1].Stock)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	data := `[{"id": 3, "name": "Lamp", "description": "Desk lamp", "category": "Hogar", "price": 4500, "stock": 2}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	products, _ := c.Products(context.Background())
	if len(products) != 1 || products[0].Name != "Lamp" || products[0].Price != 4500 {
		t.Errorf("Unexpected products: %+v", products)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestProducts_ReturnsCopy(t *testing.T) {
	c := New([]catalog.Product{{ID: 1, Name: "T-Shirt"}})

	first, _ := c.Products(context.Background())
	first[0].Name = "changed"

	second, _ := c.Products(context.Background())
	if second[0].Name != "T-Shirt" {
		t.Errorf("Expected catalog to be unchanged, got %q", second[0].Name)
	}
}

func TestLoad_ShippedCatalog(t *testing.T) {
	c, err := Load("../../../examples/catalog/products.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	products, _ := c.Products(context.Background())
	if len(products) != 12 {
		t.Errorf("Expected 12 products, got %d", len(products))
	}
	seen := make(map[int64]bool)
	for _, p := range products {
		if err := p.Validate(); err != nil {
			t.Errorf("Invalid product %+v: %v", p, err)
		}
		if seen[p.ID] {
			t.Errorf("Duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}
