package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-sales-api/internal/domain"
)

// SaleItem línea de venta. Nombre, precio unitario y subtotal son una foto del producto
// en el momento de la venta; no se recalculan si el producto cambia después.
type SaleItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// NewSaleItem construye y valida una línea.
func NewSaleItem(productID, productName string, quantity int, unitPrice, subtotal decimal.Decimal) (SaleItem, error) {
	item := SaleItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    subtotal,
	}
	return item, item.Validate()
}

// Validate productId requerido, quantity > 0, unitPrice >= 0.
func (i SaleItem) Validate() error {
	if i.ProductID == "" {
		return domain.NewValidationError("productId", "el ID del producto es requerido")
	}
	if i.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser positiva")
	}
	if i.UnitPrice.IsNegative() {
		return domain.NewValidationError("unitPrice", "el precio unitario no puede ser negativo")
	}
	return nil
}

// Sale registro inmutable de una transacción de venta con varias líneas.
type Sale struct {
	ID            string
	Items         []SaleItem
	Total         decimal.Decimal
	CustomerName  *string
	CustomerEmail *string
	Notes         *string
	CreatedAt     time.Time
}

// NewSaleParams datos para construir una venta.
// Total viene calculado por el caso de uso; la entidad no lo recalcula.
type NewSaleParams struct {
	ID            string
	Items         []SaleItem
	Total         decimal.Decimal
	CustomerName  *string
	CustomerEmail *string
	Notes         *string
	CreatedAt     time.Time
}

// NewSale construye y valida una venta: al menos un ítem y total >= 0.
func NewSale(p NewSaleParams) (*Sale, error) {
	if len(p.Items) == 0 {
		return nil, domain.NewValidationError("items", "la venta debe tener al menos un ítem")
	}
	for _, item := range p.Items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}
	if p.Total.IsNegative() {
		return nil, domain.NewValidationError("total", "el total no puede ser negativo")
	}
	items := make([]SaleItem, len(p.Items))
	copy(items, p.Items)

	s := &Sale{
		ID:            p.ID,
		Items:         items,
		Total:         p.Total,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return s, nil
}

// ItemCount suma de cantidades (no el número de líneas).
func (s *Sale) ItemCount() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}
