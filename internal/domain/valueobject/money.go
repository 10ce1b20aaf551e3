package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-sales-api/internal/domain"
)

// DefaultCurrency moneda por defecto cuando no se indica otra.
const DefaultCurrency = "USD"

// Money monto no negativo redondeado a 2 decimales en una moneda (ISO 4217).
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney valida y construye un Money. currency vacío usa DefaultCurrency.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, domain.NewValidationError("amount", "el monto no puede ser negativo")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount.Round(2), currency: currency}, nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// Add suma dos montos de la misma moneda.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Subtract resta other; falla si el resultado es negativo.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, domain.NewValidationError("amount", "el resultado no puede ser negativo")
	}
	return NewMoney(result, m.currency)
}

// Multiply escala el monto por factor (ej. cantidad).
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	return NewMoney(m.amount.Mul(factor), m.currency)
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String formato "USD 40.00".
func (m Money) String() string {
	return m.currency + " " + m.amount.StringFixed(2)
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return domain.NewValidationError("currency", "no se puede operar con monedas distintas")
	}
	return nil
}
