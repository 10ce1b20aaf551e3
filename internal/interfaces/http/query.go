package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-sales-api/internal/domain"
)

const dateLayout = "2006-01-02"

// parseDateQuery lee un query param como RFC3339 o YYYY-MM-DD (hora local del servidor).
// Con endOfDay, una fecha sin hora cubre hasta las 23:59:59.999999999 de ese día.
func parseDateQuery(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return nil, domain.NewValidationError(key, "fecha inválida, use YYYY-MM-DD o RFC3339")
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// parseRange lee from/to y exige que, si vienen ambos, from <= to.
func parseRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = parseDateQuery(c, "from", false); err != nil {
		return nil, nil, err
	}
	if to, err = parseDateQuery(c, "to", true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, domain.NewValidationError("from", "from no puede ser posterior a to")
	}
	return from, to, nil
}
