package valueobject

import (
	"math"
	"strconv"

	"github.com/jhoicas/inventory-sales-api/internal/domain"
)

// Quantity cantidad entera no negativa de unidades.
type Quantity struct {
	value int
}

// NewQuantity valida que value sea >= 0.
func NewQuantity(value int) (Quantity, error) {
	if value < 0 {
		return Quantity{}, domain.NewValidationError("quantity", "la cantidad no puede ser negativa")
	}
	return Quantity{value: value}, nil
}

func (q Quantity) Value() int { return q.value }

// Add falla si la suma desborda int.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if other.value > math.MaxInt-q.value {
		return Quantity{}, domain.NewValidationError("quantity", "la cantidad excede el máximo representable")
	}
	return Quantity{value: q.value + other.value}, nil
}

// Subtract falla si el resultado queda negativo.
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	return NewQuantity(q.value - other.value)
}

func (q Quantity) Equals(other Quantity) bool        { return q.value == other.value }
func (q Quantity) IsGreaterThan(other Quantity) bool { return q.value > other.value }
func (q Quantity) IsLessThan(other Quantity) bool    { return q.value < other.value }
func (q Quantity) IsZero() bool                      { return q.value == 0 }

func (q Quantity) String() string { return strconv.Itoa(q.value) }
