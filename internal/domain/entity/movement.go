package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-sales-api/internal/domain"
)

// MovementType tipo de movimiento de stock.
type MovementType string

// Tipos de movimiento.
const (
	MovementTypeEntry      MovementType = "ENTRY"      // entrada
	MovementTypeExit       MovementType = "EXIT"       // salida
	MovementTypeAdjustment MovementType = "ADJUSTMENT" // ajuste
)

// MovementReasonSale motivo de las salidas generadas por una venta.
const MovementReasonSale = "Sale"

// IsValid indica si t es uno de los tipos conocidos.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustment:
		return true
	}
	return false
}

// Movement registro inmutable del libro de stock. Una salida (EXIT) con Reference = ID de
// una venta es el rastro de auditoría de esa venta sobre el stock.
type Movement struct {
	ID        string
	ProductID string
	Type      MovementType
	Quantity  int
	Reason    string
	Reference *string // texto libre opcional
	CreatedAt time.Time
}

// NewMovementParams datos para construir un movimiento.
type NewMovementParams struct {
	ID        string
	ProductID string
	Type      MovementType
	Quantity  int
	Reason    string
	Reference *string
	CreatedAt time.Time
}

// NewMovement construye y valida un movimiento. No existen mutadores.
func NewMovement(p NewMovementParams) (*Movement, error) {
	if p.ProductID == "" {
		return nil, domain.NewValidationError("productId", "el ID del producto es requerido")
	}
	if !p.Type.IsValid() {
		return nil, domain.NewValidationError("type", "tipo de movimiento inválido")
	}
	if p.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "la cantidad debe ser positiva")
	}
	if strings.TrimSpace(p.Reason) == "" {
		return nil, domain.NewValidationError("reason", "el motivo es requerido")
	}
	m := &Movement{
		ID:        p.ID,
		ProductID: p.ProductID,
		Type:      p.Type,
		Quantity:  p.Quantity,
		Reason:    p.Reason,
		Reference: p.Reference,
		CreatedAt: p.CreatedAt,
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return m, nil
}

func (m *Movement) IsEntry() bool { return m.Type == MovementTypeEntry }
func (m *Movement) IsExit() bool  { return m.Type == MovementTypeExit }
