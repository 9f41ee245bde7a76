package consts

const (
	// DefaultDBName is the default database name.
	DefaultDBName = "shop"

	// TableNameProducts is the default table/collection name for products.
	TableNameProducts = "products"

	// Column names
	ColID          = "id"
	ColName        = "name"
	ColDescription = "description"
	ColCategory    = "category"
	ColPrice       = "price"
	ColStock       = "stock"
	ColImage       = "image"

	// Neo4j specific
	LabelProduct = "Product"
)
