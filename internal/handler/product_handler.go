package handler

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/mansoorceksport/restshop/internal/service"
)

// ImageField is the multipart field carrying the product image
const ImageField = "productImage"

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	productService *service.ProductService
	baseURL        string
	validator      *validator.Validate
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService, baseURL string) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		baseURL:        baseURL,
		validator:      validator.New(),
	}
}

type productForm struct {
	Name  string  `validate:"required"`
	Price float64 `validate:"gte=0"`
}

func (h *ProductHandler) productURL(id string) string {
	return h.baseURL + "/products/" + id
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.productService.ListProducts(c.UserContext())
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		items = append(items, fiber.Map{
			"name":         p.Name,
			"price":        p.Price,
			"productImage": p.ProductImage,
			"_id":          p.ID,
			"request": fiber.Map{
				"type": "GET",
				"url":  h.productURL(p.ID),
			},
		})
	}

	return c.JSON(fiber.Map{
		"count":    len(items),
		"products": items,
	})
}

// CreateProduct handles POST /products (multipart/form-data)
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "price must be a number",
		})
	}
	form := productForm{Name: c.FormValue("name"), Price: price}
	if err := h.validator.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "name is required and price must not be negative",
		})
	}

	input := service.CreateProductInput{Name: form.Name, Price: form.Price}

	// A missing file part is not an error here; the service applies the image policy
	if fh, err := c.FormFile(ImageField); err == nil {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()

		input.Image = &domain.UploadCandidate{
			Reader:       f,
			MediaType:    fh.Header.Get(fiber.HeaderContentType),
			OriginalName: fh.Filename,
		}
	}

	product, err := h.productService.CreateProduct(c.UserContext(), input)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedImage) {
			var rejected *domain.ImageRejectedError
			errors.As(err, &rejected)
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"message": rejected.Reason,
			})
		}
		log.Error("create product failed", "name", form.Name, "err", err)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Created product successfully",
		"createdProduct": fiber.Map{
			"name":         product.Name,
			"price":        product.Price,
			"_id":          product.ID,
			"productImage": product.ProductImage,
			"request": fiber.Map{
				"type": "GET",
				"url":  h.productURL(product.ID),
			},
		},
	})
}

// GetProduct handles GET /products/:productId
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productService.GetProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "No valid entry found for provided ID",
			})
		}
		return err
	}
	return c.JSON(product)
}

// PatchProduct handles PATCH /products/:productId with a body of [{"propName", "value"}]
func (h *ProductHandler) PatchProduct(c *fiber.Ctx) error {
	id := c.Params("productId")

	var ops []service.PatchOp
	if err := c.BodyParser(&ops); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "body must be an array of {propName, value}",
		})
	}
	for _, op := range ops {
		if err := h.validator.Struct(op); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "every operation needs a propName",
			})
		}
	}

	if err := h.productService.PatchProduct(c.UserContext(), id, ops); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "No valid entry found for provided ID",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Product updated",
		"request": fiber.Map{
			"type": "GET",
			"url":  h.productURL(id),
		},
	})
}

// DeleteProduct handles DELETE /products/:productId
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.UserContext(), c.Params("productId")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "No valid entry found for provided ID",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Product deleted",
		"request": fiber.Map{
			"type": "POST",
			"url":  h.baseURL + "/products",
			"data": fiber.Map{"name": "String", "price": "Number"},
		},
	})
}
