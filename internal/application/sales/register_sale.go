package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/application/inventory"
	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// RegisterSaleUseCase registra una venta de varias líneas como una sola unidad atómica:
// descuenta stock, guarda un movimiento EXIT por línea (reference = ID de la venta)
// y guarda la venta. Si algo falla no queda ningún efecto.
type RegisterSaleUseCase struct {
	txRunner inventory.TxRunner
	guard    IdempotencyGuard // opcional
}

// NewRegisterSaleUseCase construye el caso de uso. guard puede ser nil.
func NewRegisterSaleUseCase(txRunner inventory.TxRunner, guard IdempotencyGuard) *RegisterSaleUseCase {
	return &RegisterSaleUseCase{txRunner: txRunner, guard: guard}
}

// Execute registra la venta. idempotencyKey vacío desactiva la verificación de duplicados.
//
// Fases dentro de una misma transacción:
//  1. Bloqueo de los productos involucrados en orden ascendente de ID.
//  2. Lectura, en el orden de entrada: existencia, stock suficiente por línea, subtotal y total.
//     Si falla no se modificó nada.
//  3. Aplicación, en el orden de entrada: removeStock + update + movimiento EXIT. Una línea
//     repetida que agote el stock acumulado revierte toda la venta.
//  4. Inserción de la venta con sus ítems.
func (uc *RegisterSaleUseCase) Execute(ctx context.Context, in dto.RegisterSaleRequest, idempotencyKey string) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la venta debe tener al menos un ítem")
	}
	for i, item := range in.Items {
		if item.ProductID == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].productId", i), "el ID del producto es requerido")
		}
		if item.Quantity <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "la cantidad debe ser positiva")
		}
	}

	key := strings.TrimSpace(idempotencyKey)
	if key != "" && uc.guard != nil {
		reserved, err := uc.guard.Reserve(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("venta: reservar clave de idempotencia: %w", err)
		}
		if !reserved {
			return nil, domain.ErrDuplicateRequest
		}
	}

	sale, err := uc.register(ctx, in)
	if err != nil {
		if key != "" && uc.guard != nil {
			if relErr := uc.guard.Release(context.WithoutCancel(ctx), key); relErr != nil {
				zerolog.Ctx(ctx).Warn().Err(relErr).Str("idempotency_key", key).Msg("no se pudo liberar la clave de idempotencia")
			}
		}
		return nil, err
	}
	return dto.ToSaleResponse(sale), nil
}

func (uc *RegisterSaleUseCase) register(ctx context.Context, in dto.RegisterSaleRequest) (*entity.Sale, error) {
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		products, err := lockProducts(ctx, productRepo, in.Items)
		if err != nil {
			return err
		}

		// ── Fase de lectura ──────────────────────────────────────────────────
		items := make([]entity.SaleItem, 0, len(in.Items))
		total := decimal.Zero
		for _, req := range in.Items {
			product := products[req.ProductID]
			if product == nil {
				return domain.NewNotFoundError("producto", req.ProductID)
			}
			if req.Quantity > product.Stock {
				return &domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   req.Quantity,
				}
			}
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
			item, err := entity.NewSaleItem(product.ID, product.Name, req.Quantity, product.Price, subtotal)
			if err != nil {
				return err
			}
			items = append(items, item)
			total = total.Add(subtotal)
		}

		sale, err = entity.NewSale(entity.NewSaleParams{
			Items:         items,
			Total:         total,
			CustomerName:  normalize(in.CustomerName),
			CustomerEmail: normalize(in.CustomerEmail),
			Notes:         normalize(in.Notes),
		})
		if err != nil {
			return err
		}

		// ── Fase de aplicación ───────────────────────────────────────────────
		for _, req := range in.Items {
			product := products[req.ProductID]
			if err := product.RemoveStock(req.Quantity); err != nil {
				return err
			}
			if err := productRepo.Update(ctx, product); err != nil {
				return err
			}
			ref := sale.ID
			movement, err := entity.NewMovement(entity.NewMovementParams{
				ProductID: product.ID,
				Type:      entity.MovementTypeExit,
				Quantity:  req.Quantity,
				Reason:    entity.MovementReasonSale,
				Reference: &ref,
				CreatedAt: sale.CreatedAt,
			})
			if err != nil {
				return err
			}
			if err := movementRepo.Create(ctx, movement); err != nil {
				return err
			}
		}

		return saleRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// lockProducts bloquea cada producto distinto una sola vez, en orden ascendente de ID,
// para que dos ventas concurrentes no se bloqueen mutuamente. Los IDs inexistentes quedan en nil.
func lockProducts(ctx context.Context, repo repository.ProductRepository, items []dto.SaleItemRequest) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	sort.Strings(ids)

	products := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		products[id] = p
	}
	return products, nil
}

// normalize convierte "" y espacios en nil.
func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
