package entity

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/valueobject"
)

// Límites de la columna en PostgreSQL (INTEGER y NUMERIC(12,2)); ambos drivers los aplican igual.
const (
	MaxStock      = math.MaxInt32
	PriceDecimals = 2
)

// MaxPrice cota superior exclusiva del precio.
var MaxPrice = decimal.New(1, 10)

// Product representa un producto del catálogo. Es la única fuente de verdad del stock;
// movimientos y ventas lo referencian solo por ID.
type Product struct {
	ID          string
	Name        string
	Description string
	SKU         string // único en todo el catálogo
	Price       decimal.Decimal
	Stock       int
	MinStock    int // umbral de stock bajo
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProductParams datos para construir un producto. ID y fechas se generan si vienen vacíos.
type NewProductParams struct {
	ID          string
	Name        string
	Description string
	SKU         string
	Price       decimal.Decimal
	Stock       int
	MinStock    int
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct construye y valida un producto.
func NewProduct(p NewProductParams) (*Product, error) {
	now := time.Now()
	product := &Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = product.CreatedAt
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate verifica las invariantes: name y sku no vacíos; price, stock y minStock >= 0;
// price con a lo sumo dos decimales y menor que MaxPrice; stock y minStock <= MaxStock.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", "el nombre del producto es requerido")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return domain.NewValidationError("sku", "el SKU del producto es requerido")
	}
	if p.Price.IsNegative() {
		return domain.NewValidationError("price", "el precio no puede ser negativo")
	}
	if !p.Price.Equal(p.Price.Round(PriceDecimals)) {
		return domain.NewValidationError("price", "el precio admite como máximo 2 decimales")
	}
	if p.Price.GreaterThanOrEqual(MaxPrice) {
		return domain.NewValidationError("price", "el precio supera el máximo permitido")
	}
	if p.Stock < 0 {
		return domain.NewValidationError("stock", "el stock no puede ser negativo")
	}
	if p.Stock > MaxStock {
		return domain.NewValidationError("stock", "el stock supera el máximo permitido")
	}
	if p.MinStock < 0 {
		return domain.NewValidationError("minStock", "el stock mínimo no puede ser negativo")
	}
	if p.MinStock > MaxStock {
		return domain.NewValidationError("minStock", "el stock mínimo supera el máximo permitido")
	}
	return nil
}

// IsLowStock stock <= minStock.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// AddStock suma quantity (> 0) al stock. Valida el resultado antes de asignarlo;
// si falla el producto queda intacto.
func (p *Product) AddStock(quantity int) error {
	if quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser positiva")
	}
	current, err := valueobject.NewQuantity(p.Stock)
	if err != nil {
		return err
	}
	delta, err := valueobject.NewQuantity(quantity)
	if err != nil {
		return err
	}
	sum, err := current.Add(delta)
	if err != nil {
		return err
	}
	candidate := *p
	candidate.Stock = sum.Value()
	if err := candidate.Validate(); err != nil {
		return err
	}
	candidate.touch()
	*p = candidate
	return nil
}

// RemoveStock descuenta quantity; exige 0 < quantity <= stock. No modifica nada si falla.
func (p *Product) RemoveStock(quantity int) error {
	if quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser positiva")
	}
	if quantity > p.Stock {
		return &domain.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.Stock,
			Requested:   quantity,
		}
	}
	current, err := valueobject.NewQuantity(p.Stock)
	if err != nil {
		return err
	}
	delta, err := valueobject.NewQuantity(quantity)
	if err != nil {
		return err
	}
	rest, err := current.Subtract(delta)
	if err != nil {
		return err
	}
	p.Stock = rest.Value()
	p.touch()
	return nil
}

// ProductChanges actualización parcial: solo se aplican los campos no nil.
type ProductChanges struct {
	Name        *string
	Description *string
	SKU         *string
	Price       *decimal.Decimal
	Stock       *int
	MinStock    *int
	Category    *string
}

// UpdateDetails aplica los cambios sobre una copia, la valida completa y solo entonces
// la asigna; si la validación falla el producto queda intacto.
func (p *Product) UpdateDetails(changes ProductChanges) error {
	candidate := *p
	if changes.Name != nil {
		candidate.Name = *changes.Name
	}
	if changes.Description != nil {
		candidate.Description = *changes.Description
	}
	if changes.SKU != nil {
		candidate.SKU = *changes.SKU
	}
	if changes.Price != nil {
		candidate.Price = *changes.Price
	}
	if changes.Stock != nil {
		candidate.Stock = *changes.Stock
	}
	if changes.MinStock != nil {
		candidate.MinStock = *changes.MinStock
	}
	if changes.Category != nil {
		candidate.Category = *changes.Category
	}
	if err := candidate.Validate(); err != nil {
		return err
	}
	candidate.touch()
	*p = candidate
	return nil
}

// touch avanza UpdatedAt a un instante estrictamente posterior al anterior.
func (p *Product) touch() {
	now := time.Now()
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Nanosecond)
	}
	p.UpdatedAt = now
}
