package sales

import (
	"context"

	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
)

// IdempotencyGuard reserva claves de idempotencia de POST /api/sales.
// Reserve devuelve false si la clave ya estaba tomada.
type IdempotencyGuard interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// ReceiptGenerator genera el comprobante (PDF) de una venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale, currency string) ([]byte, error)
}
