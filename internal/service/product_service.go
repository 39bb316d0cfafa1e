package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mansoorceksport/restshop/internal/config"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/mansoorceksport/restshop/internal/telemetry"
	"github.com/mansoorceksport/restshop/internal/upload"
	"go.opentelemetry.io/otel/attribute"
)

// ProductService creates products from multipart submissions and manages their images
type ProductService struct {
	repo           domain.ProductRepository
	ingestor       *upload.Ingestor
	store          domain.FileStore
	rejectedPolicy string
}

// NewProductService creates a new product service.
// rejectedPolicy is one of config.PolicyFail, config.PolicyOmit or config.PolicyReject.
func NewProductService(
	repo domain.ProductRepository,
	ingestor *upload.Ingestor,
	store domain.FileStore,
	rejectedPolicy string,
) *ProductService {
	return &ProductService{
		repo:           repo,
		ingestor:       ingestor,
		store:          store,
		rejectedPolicy: rejectedPolicy,
	}
}

// CreateProductInput holds a validated product submission
type CreateProductInput struct {
	Name  string
	Price float64
	Image *domain.UploadCandidate // nil when the request carried no file part
}

// PatchOp sets one product property
type PatchOp struct {
	PropName string      `json:"propName" validate:"required"`
	Value    interface{} `json:"value"`
}

// CreateProduct runs the image through ingestion, then persists the product.
// A rejected image is handled according to the configured policy. If the
// product cannot be saved the stored image is removed again.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:  in.Name,
		Price: in.Price,
	}

	outcome := s.ingestor.Ingest(ctx, in.Image)
	telemetry.AddSpanEvent(ctx, "product.image",
		attribute.String("upload.status", outcome.Status.String()),
		attribute.String("upload.policy", s.rejectedPolicy),
	)
	switch outcome.Status {
	case domain.UploadAccepted:
		product.ProductImage = outcome.File.Path
	case domain.UploadRejected:
		switch s.rejectedPolicy {
		case config.PolicyOmit:
			// created without an image
		case config.PolicyReject:
			return nil, &domain.ImageRejectedError{Reason: outcome.Reason, Err: domain.ErrUnsupportedImage}
		default:
			return nil, &domain.ImageRejectedError{Reason: outcome.Reason}
		}
	default:
		return nil, fmt.Errorf("failed to ingest product image: %w", outcome.Err)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.removeImage(ctx, product.ProductImage)
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	return product, nil
}

// ListProducts returns every product
func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

// GetProduct returns a product by id. Malformed ids are reported as not found.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrInvalidID) {
		return nil, domain.ErrNotFound
	}
	return product, err
}

// PatchProduct applies ops as a single update. Only name, price and productImage may be set.
func (s *ProductService) PatchProduct(ctx context.Context, id string, ops []PatchOp) error {
	if len(ops) == 0 {
		return fmt.Errorf("%w: no operations", domain.ErrInvalidPatch)
	}

	fields := make(map[string]interface{}, len(ops))
	for _, op := range ops {
		if !domain.ProductPatchFields[op.PropName] {
			return fmt.Errorf("%w: %q cannot be updated", domain.ErrInvalidPatch, op.PropName)
		}
		value, err := patchValue(op)
		if err != nil {
			return err
		}
		if op.PropName == "productImage" && value != "" && !upload.WithinRoot(s.uploadRoot(), value.(string)) {
			return fmt.Errorf("%w: productImage must name a stored upload", domain.ErrInvalidPatch)
		}
		fields[op.PropName] = value
	}

	err := s.repo.Update(ctx, id, fields)
	if errors.Is(err, domain.ErrInvalidID) {
		return domain.ErrNotFound
	}
	return err
}

func patchValue(op PatchOp) (interface{}, error) {
	switch op.PropName {
	case "price":
		price, ok := op.Value.(float64)
		if !ok || price < 0 {
			return nil, fmt.Errorf("%w: price must be a non-negative number", domain.ErrInvalidPatch)
		}
		return price, nil
	default:
		// productImage may be cleared with an empty string
		str, ok := op.Value.(string)
		if !ok || (op.PropName == "name" && str == "") {
			return nil, fmt.Errorf("%w: %s must be a non-empty string", domain.ErrInvalidPatch, op.PropName)
		}
		return str, nil
	}
}

// DeleteProduct removes the product and, best effort, its stored image.
// Deleting a product that does not exist succeeds.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return domain.ErrNotFound
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.removeImage(ctx, product.ProductImage)
	return nil
}

func (s *ProductService) uploadRoot() string {
	return s.ingestor.Config().UploadRoot
}

// removeImage deletes a stored image, best effort. Paths outside the upload
// root are never handed to the store.
func (s *ProductService) removeImage(ctx context.Context, p string) {
	if p == "" {
		return
	}
	if !upload.WithinRoot(s.uploadRoot(), p) {
		log.Warn("not removing product image outside the upload root", "path", p)
		return
	}
	if err := s.store.Remove(ctx, p); err != nil {
		log.Warn("failed to remove product image", "path", p, "err", err)
	}
}
