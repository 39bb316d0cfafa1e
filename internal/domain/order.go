package domain

import (
	"context"
	"time"
)

// Order is a quantity of one product
type Order struct {
	ID        string    `json:"_id" bson:"_id,omitempty"`
	ProductID string    `json:"product" bson:"product"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	CreatedAt time.Time `json:"-" bson:"created_at"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	Delete(ctx context.Context, id string) error
}
