package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/application/inventory"
	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/infrastructure/memory"
)

type fixture struct {
	products  *memory.ProductRepository
	movements *memory.MovementRepository
	register  *inventory.RegisterMovementUseCase
	query     *inventory.MovementQueryUseCase
}

func newFixture(t *testing.T, stock int) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		products:  memory.NewProductRepository(store),
		movements: memory.NewMovementRepository(store),
	}
	f.register = inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store))
	f.query = inventory.NewMovementQueryUseCase(f.movements)

	p, err := entity.NewProduct(entity.NewProductParams{
		ID: "p1", Name: "Teclado", SKU: "TEC-1", Price: decimal.NewFromInt(10), Stock: stock,
	})
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), p))
	return f
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	return p.Stock
}

func TestRegisterEntry_SumaStockYGuardaMovimiento(t *testing.T) {
	f := newFixture(t, 2)
	ref := "OC-77"

	out, err := f.register.RegisterEntry(context.Background(), dto.RegisterMovementRequest{
		ProductID: "p1", Quantity: 5, Reason: "Compra", Reference: &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, "ENTRY", out.Type)
	assert.Equal(t, 7, f.stock(t))

	got, err := f.query.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Reference)
	assert.Equal(t, "OC-77", *got.Reference)
}

func TestRegisterExit_StockInsuficiente(t *testing.T) {
	f := newFixture(t, 2)

	_, err := f.register.RegisterExit(context.Background(), dto.RegisterMovementRequest{
		ProductID: "p1", Quantity: 3, Reason: "Merma",
	})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, f.stock(t))

	list, err := f.query.ListByProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegisterExit_DescuentaHastaCero(t *testing.T) {
	f := newFixture(t, 2)

	_, err := f.register.RegisterExit(context.Background(), dto.RegisterMovementRequest{
		ProductID: "p1", Quantity: 2, Reason: "Merma",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t))
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	cases := []struct {
		name string
		in   dto.RegisterMovementRequest
		want error
	}{
		{"cantidad cero", dto.RegisterMovementRequest{ProductID: "p1", Quantity: 0, Reason: "x"}, domain.ErrInvalidInput},
		{"sin motivo", dto.RegisterMovementRequest{ProductID: "p1", Quantity: 1, Reason: "  "}, domain.ErrInvalidInput},
		{"producto inexistente", dto.RegisterMovementRequest{ProductID: "nope", Quantity: 1, Reason: "x"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, 2)
			_, err := f.register.RegisterEntry(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 2, f.stock(t))
		})
	}
}

func TestMovementQuery_ListFiltros(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	_, err := f.register.RegisterEntry(ctx, dto.RegisterMovementRequest{ProductID: "p1", Quantity: 1, Reason: "Compra"})
	require.NoError(t, err)
	_, err = f.register.RegisterExit(ctx, dto.RegisterMovementRequest{ProductID: "p1", Quantity: 1, Reason: "Merma"})
	require.NoError(t, err)

	all, err := f.query.List(ctx, dto.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	exit := entity.MovementTypeExit
	exits, err := f.query.List(ctx, dto.MovementFilter{Type: &exit})
	require.NoError(t, err)
	require.Len(t, exits, 1)
	assert.Equal(t, "Merma", exits[0].Reason)

	from := time.Now().Add(-time.Minute)
	to := time.Now().Add(time.Minute)
	ranged, err := f.query.List(ctx, dto.MovementFilter{Type: &exit, From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	bad := entity.MovementType("TRANSFER")
	_, err = f.query.List(ctx, dto.MovementFilter{Type: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.query.List(ctx, dto.MovementFilter{From: &to, To: &from})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementQuery_ListByProduct_ConservaHistorialDeProductoEliminado(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	_, err := f.register.RegisterExit(ctx, dto.RegisterMovementRequest{ProductID: "p1", Quantity: 1, Reason: "Merma"})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, "p1"))

	list, err := f.query.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMovementQuery_GetByID_NoExiste(t *testing.T) {
	f := newFixture(t, 1)
	_, err := f.query.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
