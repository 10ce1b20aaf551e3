package inventory

import (
	"context"

	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// MovementQueryUseCase consultas de solo lectura sobre el libro de movimientos.
type MovementQueryUseCase struct {
	movementRepo repository.MovementRepository
}

func NewMovementQueryUseCase(movementRepo repository.MovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movementRepo: movementRepo}
}

// GetByID devuelve NotFoundError si el movimiento no existe.
func (uc *MovementQueryUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NewNotFoundError("movimiento", id)
	}
	return dto.ToMovementResponse(m), nil
}

// List aplica los filtros presentes; sin filtros devuelve todo el libro.
func (uc *MovementQueryUseCase) List(ctx context.Context, f dto.MovementFilter) ([]dto.MovementResponse, error) {
	if f.Type != nil && !f.Type.IsValid() {
		return nil, domain.NewValidationError("type", "tipo de movimiento inválido")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.NewValidationError("to", "la fecha final es anterior a la inicial")
	}

	var (
		list []*entity.Movement
		err  error
	)
	switch {
	case f.From != nil && f.To != nil:
		list, err = uc.movementRepo.ListByDateRange(ctx, *f.From, *f.To)
	case f.Type != nil:
		list, err = uc.movementRepo.ListByType(ctx, *f.Type)
	default:
		list, err = uc.movementRepo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := list[:0:0]
	for _, m := range list {
		if f.Type != nil && m.Type != *f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, m)
	}
	return dto.ToMovementResponses(out), nil
}

// ListByProduct incluye movimientos de productos ya eliminados.
func (uc *MovementQueryUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.MovementResponse, error) {
	list, err := uc.movementRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponses(list), nil
}

// ListBySale movimientos EXIT cuya referencia es la venta indicada.
func (uc *MovementQueryUseCase) ListBySale(ctx context.Context, saleID string) ([]dto.MovementResponse, error) {
	list, err := uc.movementRepo.ListByReference(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponses(list), nil
}
