package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
)

// SaleItemRequest línea pedida: producto y cantidad.
type SaleItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// RegisterSaleRequest body para POST /api/sales.
type RegisterSaleRequest struct {
	Items         []SaleItemRequest `json:"items"`
	CustomerName  *string           `json:"customerName,omitempty"`
	CustomerEmail *string           `json:"customerEmail,omitempty"`
	Notes         *string           `json:"notes,omitempty"`
}

// SaleFilter filtros opcionales de GET /api/sales.
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	CustomerEmail string
}

// SaleItemResponse línea de venta tal como quedó registrada.
type SaleItemResponse struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	Items         []SaleItemResponse `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	CustomerName  *string            `json:"customerName"`
	CustomerEmail *string            `json:"customerEmail"`
	Notes         *string            `json:"notes"`
	ItemCount     int                `json:"itemCount"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// ToSaleResponse proyecta la entidad.
func ToSaleResponse(s *entity.Sale) *SaleResponse {
	if s == nil {
		return nil
	}
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return &SaleResponse{
		ID:            s.ID,
		Items:         items,
		Total:         s.Total,
		CustomerName:  s.CustomerName,
		CustomerEmail: s.CustomerEmail,
		Notes:         s.Notes,
		ItemCount:     s.ItemCount(),
		CreatedAt:     s.CreatedAt,
	}
}

func ToSaleResponses(list []*entity.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *ToSaleResponse(s))
	}
	return out
}
