package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/mansoorceksport/restshop/internal/service"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderService *service.OrderService
	baseURL      string
	validator    *validator.Validate
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, baseURL string) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		baseURL:      baseURL,
		validator:    validator.New(),
	}
}

type createOrderRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

func (h *OrderHandler) orderURL(id string) string {
	return h.baseURL + "/orders/" + id
}

func productSummary(p *domain.Product) interface{} {
	if p == nil {
		return nil
	}
	return fiber.Map{"_id": p.ID, "name": p.Name}
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListOrders(c.UserContext())
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(orders))
	for _, o := range orders {
		items = append(items, fiber.Map{
			"_id":      o.Order.ID,
			"product":  productSummary(o.Product),
			"quantity": o.Order.Quantity,
			"request": fiber.Map{
				"type": "GET",
				"url":  h.orderURL(o.Order.ID),
			},
		})
	}

	return c.JSON(fiber.Map{
		"count":  len(items),
		"orders": items,
	})
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "productId is required and quantity must not be negative",
		})
	}

	order, err := h.orderService.CreateOrder(c.UserContext(), req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order stored",
		"createdOrder": fiber.Map{
			"_id":      order.ID,
			"product":  order.ProductID,
			"quantity": order.Quantity,
		},
		"request": fiber.Map{
			"type": "GET",
			"url":  h.orderURL(order.ID),
		},
	})
}

// GetOrder handles GET /orders/:orderId
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	result, err := h.orderService.GetOrder(c.UserContext(), c.Params("orderId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"order": fiber.Map{
			"_id":      result.Order.ID,
			"product":  productSummary(result.Product),
			"quantity": result.Order.Quantity,
		},
		"request": fiber.Map{
			"type": "GET",
			"url":  h.baseURL + "/orders",
		},
	})
}

// DeleteOrder handles DELETE /orders/:orderId
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	if err := h.orderService.DeleteOrder(c.UserContext(), c.Params("orderId")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Order deleted",
		"request": fiber.Map{
			"type": "POST",
			"url":  h.baseURL + "/orders",
			"body": fiber.Map{"productId": "ID", "quantity": "Number"},
		},
	})
}
