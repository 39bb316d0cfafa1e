package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mansoorceksport/restshop/internal/config"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/mansoorceksport/restshop/internal/repository"
	"github.com/mansoorceksport/restshop/internal/upload"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductService(t *testing.T, policy string) (*ProductService, *MockProductRepository, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := repository.NewDiskFileStore(fs)
	repo := new(MockProductRepository)
	svc := NewProductService(repo, upload.NewIngestor(upload.DefaultConfig(), store), store, policy)
	return svc, repo, fs
}

func pngCandidate() *domain.UploadCandidate {
	data := make([]byte, 10)
	copy(data, "\x89PNG\r\n\x1a\n")
	return &domain.UploadCandidate{
		Reader:       bytes.NewReader(data),
		MediaType:    "image/png",
		OriginalName: "widget.png",
	}
}

func textCandidate() *domain.UploadCandidate {
	return &domain.UploadCandidate{
		Reader:       strings.NewReader("hello"),
		MediaType:    "text/plain",
		OriginalName: "notes.txt",
	}
}

func TestCreateProduct_WithImage(t *testing.T) {
	ctx := context.Background()
	svc, repo, fs := newProductService(t, config.PolicyFail)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Widget", Price: 9.99, Image: pngCandidate()})
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.True(t, strings.HasPrefix(product.ProductImage, "uploads/"))
	assert.True(t, strings.HasSuffix(product.ProductImage, "widget.png"))

	exists, err := afero.Exists(fs, product.ProductImage)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateProduct_RejectedPolicies(t *testing.T) {
	tests := []struct {
		name      string
		policy    string
		image     *domain.UploadCandidate
		wantErrIs error
	}{
		{name: "fail rejects text", policy: config.PolicyFail, image: textCandidate(), wantErrIs: domain.ErrImageRequired},
		{name: "fail rejects missing file", policy: config.PolicyFail, image: nil, wantErrIs: domain.ErrImageRequired},
		{name: "reject reports unsupported", policy: config.PolicyReject, image: textCandidate(), wantErrIs: domain.ErrUnsupportedImage},
		{name: "omit creates without image", policy: config.PolicyOmit, image: textCandidate()},
		{name: "omit allows missing file", policy: config.PolicyOmit, image: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, repo, fs := newProductService(t, tt.policy)
			repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

			product, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Widget", Price: 1, Image: tt.image})

			exists, _ := afero.DirExists(fs, "uploads")
			assert.False(t, exists, "rejected upload must not touch storage")

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Nil(t, product)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, product.ProductImage)
		})
	}
}

func TestCreateProduct_OversizedFails(t *testing.T) {
	ctx := context.Background()
	svc, repo, fs := newProductService(t, config.PolicyOmit)

	data := make([]byte, 6*1024*1024)
	copy(data, []byte{0xFF, 0xD8, 0xFF})
	_, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Huge",
		Price: 1,
		Image: &domain.UploadCandidate{Reader: bytes.NewReader(data), MediaType: "image/jpeg", OriginalName: "huge.jpg"},
	})

	assert.ErrorIs(t, err, upload.ErrFileTooLarge)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	entries, _ := afero.ReadDir(fs, "uploads")
	assert.Empty(t, entries)
}

func TestCreateProduct_SaveFailureRemovesImage(t *testing.T) {
	ctx := context.Background()
	svc, repo, fs := newProductService(t, config.PolicyFail)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(errors.New("mongo down"))

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Widget", Price: 1, Image: pngCandidate()})
	require.Error(t, err)

	entries, _ := afero.ReadDir(fs, "uploads")
	assert.Empty(t, entries)
}

func TestGetProduct_InvalidIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newProductService(t, config.PolicyFail)
	repo.On("GetByID", ctx, "bogus").Return(nil, domain.ErrInvalidID)

	_, err := svc.GetProduct(ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatchProduct(t *testing.T) {
	tests := []struct {
		name       string
		ops        []PatchOp
		wantFields map[string]interface{}
		wantErr    error
	}{
		{
			name:       "name and price",
			ops:        []PatchOp{{PropName: "name", Value: "Gadget"}, {PropName: "price", Value: 12.5}},
			wantFields: map[string]interface{}{"name": "Gadget", "price": 12.5},
		},
		{name: "unknown field", ops: []PatchOp{{PropName: "_id", Value: "x"}}, wantErr: domain.ErrInvalidPatch},
		{name: "price as string", ops: []PatchOp{{PropName: "price", Value: "cheap"}}, wantErr: domain.ErrInvalidPatch},
		{name: "negative price", ops: []PatchOp{{PropName: "price", Value: -1.0}}, wantErr: domain.ErrInvalidPatch},
		{name: "empty name", ops: []PatchOp{{PropName: "name", Value: ""}}, wantErr: domain.ErrInvalidPatch},
		{name: "no ops", ops: nil, wantErr: domain.ErrInvalidPatch},
		{
			name:       "stored image",
			ops:        []PatchOp{{PropName: "productImage", Value: "uploads/2026-10-17T10:11:12.123Zw.png"}},
			wantFields: map[string]interface{}{"productImage": "uploads/2026-10-17T10:11:12.123Zw.png"},
		},
		{
			name:       "cleared image",
			ops:        []PatchOp{{PropName: "productImage", Value: ""}},
			wantFields: map[string]interface{}{"productImage": ""},
		},
		{name: "image outside upload root", ops: []PatchOp{{PropName: "productImage", Value: "secrets/app.env"}}, wantErr: domain.ErrInvalidPatch},
		{name: "image escaping upload root", ops: []PatchOp{{PropName: "productImage", Value: "uploads/../secrets/app.env"}}, wantErr: domain.ErrInvalidPatch},
		{name: "image in nested dir", ops: []PatchOp{{PropName: "productImage", Value: "uploads/a/b.png"}}, wantErr: domain.ErrInvalidPatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, repo, _ := newProductService(t, config.PolicyFail)
			repo.On("Update", ctx, "p1", mock.Anything).Return(nil)

			err := svc.PatchProduct(ctx, "p1", tt.ops)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertCalled(t, "Update", ctx, "p1", tt.wantFields)
		})
	}
}

func TestDeleteProduct_RemovesImage(t *testing.T) {
	ctx := context.Background()
	svc, repo, fs := newProductService(t, config.PolicyFail)
	require.NoError(t, afero.WriteFile(fs, "uploads/2026-10-17T10:11:12.123Zw.png", []byte("x"), 0o644))

	repo.On("GetByID", ctx, "p1").Return(&domain.Product{ID: "p1", ProductImage: "uploads/2026-10-17T10:11:12.123Zw.png"}, nil)
	repo.On("Delete", ctx, "p1").Return(nil)

	require.NoError(t, svc.DeleteProduct(ctx, "p1"))

	exists, _ := afero.Exists(fs, "uploads/2026-10-17T10:11:12.123Zw.png")
	assert.False(t, exists)
}

func TestDeleteProduct_Missing(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newProductService(t, config.PolicyFail)
	repo.On("GetByID", ctx, "gone").Return(nil, domain.ErrNotFound)

	assert.NoError(t, svc.DeleteProduct(ctx, "gone"))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteProduct_KeepsFilesOutsideUploadRoot(t *testing.T) {
	for _, image := range []string{"secrets/app.env", "uploads/../secrets/app.env"} {
		t.Run(image, func(t *testing.T) {
			ctx := context.Background()
			svc, repo, fs := newProductService(t, config.PolicyFail)
			require.NoError(t, afero.WriteFile(fs, "secrets/app.env", []byte("KEY=1"), 0o600))

			repo.On("GetByID", ctx, "p1").Return(&domain.Product{ID: "p1", ProductImage: image}, nil)
			repo.On("Delete", ctx, "p1").Return(nil)

			require.NoError(t, svc.DeleteProduct(ctx, "p1"))

			repo.AssertCalled(t, "Delete", ctx, "p1")
			exists, err := afero.Exists(fs, "secrets/app.env")
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}
