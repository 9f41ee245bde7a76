package mongo

import (
	"context"
	"fmt"

	"github.com/barekit/shopqa/pkg/catalog"
	"github.com/barekit/shopqa/pkg/catalog/consts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCatalog struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type ProductDoc struct {
	ID          int64  `bson:"id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Category    string `bson:"category"`
	Price       int64  `bson:"price"`
	Stock       int64  `bson:"stock,omitempty"`
	Image       string `bson:"image,omitempty"`
}

// New creates a new MongoCatalog adapter.
func New(client *mongo.Client, dbName, collectionName string) *MongoCatalog {
	return &MongoCatalog{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
	}
}

func (c *MongoCatalog) Products(ctx context.Context) ([]catalog.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: consts.ColID, Value: 1}})

	cursor, err := c.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []catalog.Product
	for cursor.Next(ctx) {
		var doc ProductDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, catalog.Product{
			ID:          doc.ID,
			Name:        doc.Name,
			Description: doc.Description,
			Category:    doc.Category,
			Price:       doc.Price,
			Stock:       doc.Stock,
			Image:       doc.Image,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (c *MongoCatalog) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
