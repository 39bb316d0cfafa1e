package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mansoorceksport/restshop/internal/domain"
)

// OrderService manages orders and resolves the products they reference
type OrderService struct {
	orders   domain.OrderRepository
	products domain.ProductRepository
}

// NewOrderService creates a new order service
func NewOrderService(orders domain.OrderRepository, products domain.ProductRepository) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
	}
}

// OrderWithProduct is an order with its product populated.
// Product is nil when the product has since been deleted.
type OrderWithProduct struct {
	Order   *domain.Order
	Product *domain.Product
}

// ErrProductNotFound is returned when an order references a missing product
var ErrProductNotFound = errors.New("product not found")

// ListOrders returns all orders with their products populated
func (s *OrderService) ListOrders(ctx context.Context) ([]OrderWithProduct, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(orders))
	seen := make(map[string]bool)
	for _, o := range orders {
		if !seen[o.ProductID] {
			seen[o.ProductID] = true
			ids = append(ids, o.ProductID)
		}
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load order products: %w", err)
	}
	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	result := make([]OrderWithProduct, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderWithProduct{Order: o, Product: byID[o.ProductID]})
	}
	return result, nil
}

// CreateOrder stores an order for an existing product. Quantity defaults to 1.
func (s *OrderService) CreateOrder(ctx context.Context, productID string, quantity int) (*domain.Order, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if quantity <= 0 {
		quantity = 1
	}
	order := &domain.Order{
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	return order, nil
}

// GetOrder returns one order with its product populated
func (s *OrderService) GetOrder(ctx context.Context, id string) (*OrderWithProduct, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	product, err := s.products.GetByID(ctx, order.ProductID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrInvalidID) {
		return nil, err
	}
	return &OrderWithProduct{Order: order, Product: product}, nil
}

// DeleteOrder removes an order. Deleting a missing order succeeds.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	err := s.orders.Delete(ctx, id)
	if errors.Is(err, domain.ErrInvalidID) {
		return domain.ErrNotFound
	}
	return err
}
