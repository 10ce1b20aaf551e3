package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
)

// SaleRepository persistencia de ventas con sus líneas.
type SaleRepository interface {
	// Create guarda cabecera e ítems en la misma operación.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context) ([]*entity.Sale, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Sale, error)
	// ListByCustomerEmail compara sin distinguir mayúsculas.
	ListByCustomerEmail(ctx context.Context, email string) ([]*entity.Sale, error)
	// GetTotalSales suma de totales; from/to nil = sin límite.
	GetTotalSales(ctx context.Context, from, to *time.Time) (decimal.Decimal, error)
	Count(ctx context.Context) (int, error)
}
