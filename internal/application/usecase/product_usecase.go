package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/application/inventory"
	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Las escrituras corren dentro del TxRunner
// para que la verificación de SKU y el guardado sean una sola unidad.
type ProductUseCase struct {
	txRunner inventory.TxRunner
	repo     repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo}
}

// Create crea un producto. Falla con ConflictError si el SKU ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := entity.NewProduct(entity.NewProductParams{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		SKU:         strings.TrimSpace(in.SKU),
		Price:       in.Price,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		Category:    strings.TrimSpace(in.Category),
	})
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.MovementRepository, _ repository.SaleRepository) error {
		exists, err := productRepo.ExistsBySKU(ctx, product.SKU)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewConflictError("producto", "SKU", product.SKU)
		}
		return productRepo.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("producto", id)
	}
	return dto.ToProductResponse(product), nil
}

// Update aplica una actualización parcial. Si cambia el SKU solo se verifica el nuevo valor.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		in.SKU = &sku
	}
	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.MovementRepository, _ repository.SaleRepository) error {
		product, err := productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewNotFoundError("producto", id)
		}
		if in.SKU != nil && *in.SKU != product.SKU {
			exists, err := productRepo.ExistsBySKU(ctx, *in.SKU)
			if err != nil {
				return err
			}
			if exists {
				return domain.NewConflictError("producto", "SKU", *in.SKU)
			}
		}
		if err := product.UpdateDetails(in.Changes()); err != nil {
			return err
		}
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(updated), nil
}

// Delete elimina un producto. Los movimientos y ventas que lo referencian se conservan.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.MovementRepository, _ repository.SaleRepository) error {
		product, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewNotFoundError("producto", id)
		}
		return productRepo.Delete(ctx, id)
	})
}

// List lista todos los productos.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponses(list), nil
}

// ListByCategory compara la categoría sin distinguir mayúsculas.
func (uc *ProductUseCase) ListByCategory(ctx context.Context, category string) ([]dto.ProductResponse, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.NewValidationError("category", "la categoría es requerida")
	}
	list, err := uc.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponses(list), nil
}

// ListLowStock productos con stock <= minStock.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponses(list), nil
}
