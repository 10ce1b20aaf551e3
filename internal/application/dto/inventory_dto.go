package dto

import (
	"time"

	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/movements/entry y /api/movements/exit.
type RegisterMovementRequest struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Reason    string  `json:"reason"`
	Reference *string `json:"reference,omitempty"`
}

// MovementFilter filtros opcionales de GET /api/movements. Se combinan con AND.
type MovementFilter struct {
	Type *entity.MovementType
	From *time.Time
	To   *time.Time
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Reference *string   `json:"reference"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToMovementResponse proyecta la entidad.
func ToMovementResponse(m *entity.Movement) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}

func ToMovementResponses(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	return out
}
