package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/application/usecase"
	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/infrastructure/memory"
)

func newProductUseCase() *usecase.ProductUseCase {
	store := memory.NewStore()
	return usecase.NewProductUseCase(memory.NewTxRunner(store), memory.NewProductRepository(store))
}

func createReq(sku string, stock, minStock int, category string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:     "Producto " + sku,
		SKU:      sku,
		Price:    decimal.RequireFromString("12.50"),
		Stock:    stock,
		MinStock: minStock,
		Category: category,
	}
}

func TestProductUseCase_Create(t *testing.T) {
	uc := newProductUseCase()
	ctx := context.Background()

	out, err := uc.Create(ctx, createReq(" SKU-1 ", 10, 2, "Periféricos"))
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "SKU-1", out.SKU)
	assert.False(t, out.IsLowStock)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, got.ID)
}

func TestProductUseCase_Create_SKUDuplicadoNoPersiste(t *testing.T) {
	uc := newProductUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, createReq("SKU-1", 10, 2, ""))
	require.NoError(t, err)

	_, err = uc.Create(ctx, createReq("SKU-1", 3, 0, ""))
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "SKU-1", conflict.Value)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProductUseCase_Create_Invalido(t *testing.T) {
	uc := newProductUseCase()
	req := createReq("SKU-1", 10, 2, "")
	req.Price = decimal.NewFromInt(-1)

	_, err := uc.Create(context.Background(), req)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "price", vErr.Field)
}

func TestProductUseCase_Update_Parcial(t *testing.T) {
	uc := newProductUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, createReq("SKU-1", 10, 2, "A"))
	require.NoError(t, err)

	name := "Nuevo nombre"
	stock := 1
	out, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &name, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo nombre", out.Name)
	assert.Equal(t, 1, out.Stock)
	assert.Equal(t, "SKU-1", out.SKU)
	assert.Equal(t, "A", out.Category)
	assert.True(t, out.IsLowStock)
	assert.True(t, out.UpdatedAt.After(created.UpdatedAt))
}

func TestProductUseCase_Update_MismoSKUNoEsConflicto(t *testing.T) {
	uc := newProductUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, createReq("SKU-1", 10, 2, ""))
	require.NoError(t, err)

	sku := "SKU-1"
	_, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{SKU: &sku})
	assert.NoError(t, err)
}

func TestProductUseCase_Update_SKUDeOtroProducto(t *testing.T) {
	uc := newProductUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, createReq("SKU-1", 10, 2, ""))
	require.NoError(t, err)
	second, err := uc.Create(ctx, createReq("SKU-2", 10, 2, ""))
	require.NoError(t, err)

	sku := "SKU-1"
	_, err = uc.Update(ctx, second.ID, dto.UpdateProductRequest{SKU: &sku})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := uc.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-2", got.SKU)
}

func TestProductUseCase_Update_InvalidoNoModifica(t *testing.T) {
	uc := newProductUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, createReq("SKU-1", 10, 2, ""))
	require.NoError(t, err)

	name := "Otro"
	stock := -5
	_, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &name, Stock: &stock})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, 10, got.Stock)
}

func TestProductUseCase_NoEncontrado(t *testing.T) {
	uc := newProductUseCase()
	ctx := context.Background()

	_, err := uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	name := "x"
	_, err = uc.Update(ctx, "nope", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, "nope"), domain.ErrNotFound)
}

func TestProductUseCase_Delete(t *testing.T) {
	uc := newProductUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, createReq("SKU-1", 10, 2, ""))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// el SKU queda libre
	_, err = uc.Create(ctx, createReq("SKU-1", 1, 0, ""))
	assert.NoError(t, err)
}

func TestProductUseCase_Consultas(t *testing.T) {
	uc := newProductUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, createReq("A", 10, 2, "Periféricos"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, createReq("B", 2, 2, "periféricos"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, createReq("C", 0, 5, "Cables"))
	require.NoError(t, err)

	low, err := uc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "C", low[0].SKU, "stock ascendente")
	assert.Equal(t, "B", low[1].SKU)

	byCat, err := uc.ListByCategory(ctx, "PERIFÉRICOS")
	require.NoError(t, err)
	assert.Len(t, byCat, 2)

	_, err = uc.ListByCategory(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
