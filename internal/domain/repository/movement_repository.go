package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
)

// MovementRepository libro de movimientos de stock (solo inserción).
// Los listados se devuelven ordenados por createdAt descendente.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context) ([]*entity.Movement, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Movement, error)
	ListByType(ctx context.Context, movementType entity.MovementType) ([]*entity.Movement, error)
	// ListByDateRange incluye ambos extremos.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Movement, error)
	ListByReference(ctx context.Context, reference string) ([]*entity.Movement, error)
}
