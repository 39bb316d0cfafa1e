package domain

import (
	"context"
	"time"
)

// Product is a sellable item. ProductImage references a StoredFile path.
type Product struct {
	ID           string    `json:"_id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Price        float64   `json:"price" bson:"price"`
	ProductImage string    `json:"productImage,omitempty" bson:"productImage,omitempty"`
	CreatedAt    time.Time `json:"-" bson:"created_at"`
	UpdatedAt    time.Time `json:"-" bson:"updated_at"`
}

// Patchable product fields, keyed by their propName
var ProductPatchFields = map[string]bool{
	"name":         true,
	"price":        true,
	"productImage": true,
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}
