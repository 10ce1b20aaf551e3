package inventory

import (
	"context"

	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// RegisterMovementUseCase registra entradas y salidas de un solo producto de forma transaccional:
// bloquea la fila del producto, ajusta el stock y guarda el movimiento en la misma tx.
type RegisterMovementUseCase struct {
	txRunner TxRunner
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner}
}

// RegisterEntry suma stock y registra un movimiento ENTRY.
func (uc *RegisterMovementUseCase) RegisterEntry(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	return uc.register(ctx, entity.MovementTypeEntry, in)
}

// RegisterExit descuenta stock y registra un movimiento EXIT.
// Falla con InsufficientStockError si la cantidad supera el stock.
func (uc *RegisterMovementUseCase) RegisterExit(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	return uc.register(ctx, entity.MovementTypeExit, in)
}

func (uc *RegisterMovementUseCase) register(ctx context.Context, movementType entity.MovementType, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	// El movimiento no depende del producto: se valida antes de abrir la tx
	movement, err := entity.NewMovement(entity.NewMovementParams{
		ProductID: in.ProductID,
		Type:      movementType,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Reference: in.Reference,
	})
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		_ repository.SaleRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewNotFoundError("producto", in.ProductID)
		}
		if movementType == entity.MovementTypeEntry {
			err = product.AddStock(in.Quantity)
		} else {
			err = product.RemoveStock(in.Quantity)
		}
		if err != nil {
			return err
		}
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		return movementRepo.Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponse(movement), nil
}
