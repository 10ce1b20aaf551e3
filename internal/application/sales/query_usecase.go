package sales

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// SaleQueryUseCase consultas de solo lectura sobre ventas.
type SaleQueryUseCase struct {
	saleRepo repository.SaleRepository
}

func NewSaleQueryUseCase(saleRepo repository.SaleRepository) *SaleQueryUseCase {
	return &SaleQueryUseCase{saleRepo: saleRepo}
}

// GetByID devuelve NotFoundError si la venta no existe.
func (uc *SaleQueryUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NewNotFoundError("venta", id)
	}
	return dto.ToSaleResponse(s), nil
}

// List ventas más recientes primero. Rango (ambos extremos incluidos) y email se combinan.
func (uc *SaleQueryUseCase) List(ctx context.Context, f dto.SaleFilter) ([]dto.SaleResponse, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.NewValidationError("to", "la fecha final es anterior a la inicial")
	}
	email := strings.TrimSpace(f.CustomerEmail)

	var (
		list []*entity.Sale
		err  error
	)
	switch {
	case email != "":
		list, err = uc.saleRepo.ListByCustomerEmail(ctx, email)
	case f.From != nil && f.To != nil:
		list, err = uc.saleRepo.ListByDateRange(ctx, *f.From, *f.To)
	default:
		list, err = uc.saleRepo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := list[:0:0]
	for _, s := range list {
		if f.From != nil && s.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && s.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, s)
	}
	return dto.ToSaleResponses(out), nil
}

// TotalRevenue suma de totales en el rango; nil = sin límite.
func (uc *SaleQueryUseCase) TotalRevenue(ctx context.Context, from, to *time.Time) (decimal.Decimal, error) {
	return uc.saleRepo.GetTotalSales(ctx, from, to)
}
