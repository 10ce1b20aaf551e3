package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/application/sales"
)

// HeaderIdempotencyKey clave opcional para reintentos seguros de POST /api/sales.
const HeaderIdempotencyKey = "Idempotency-Key"

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	register *sales.RegisterSaleUseCase
	query    *sales.SaleQueryUseCase
	receipt  *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler. receipt puede ser nil: la ruta del recibo responde 404.
func NewSaleHandler(register *sales.RegisterSaleUseCase, query *sales.SaleQueryUseCase, receipt *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{register: register, query: query, receipt: receipt}
}

// Register godoc
// @Summary      Registrar venta
// @Description  Todo o nada: valida stock de todas las líneas, descuenta y genera una salida por línea.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                   false  "Clave de idempotencia"
// @Param        body             body    dto.RegisterSaleRequest  true   "Líneas y datos del cliente"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
	out, err := h.register.Execute(c.UserContext(), in, key)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        from            query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        to              query  string  false  "YYYY-MM-DD (fin del día) o RFC3339"
// @Param        customer_email  query  string  false  "Email del cliente"
// @Success      200  {object}  dto.ListResponse[dto.SaleResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.query.List(c.UserContext(), dto.SaleFilter{
		From:          from,
		To:            to,
		CustomerEmail: strings.TrimSpace(c.Query("customer_email")),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(out))
}

// DownloadReceipt godoc
// @Summary      Recibo PDF de una venta
// @Tags         sales
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) DownloadReceipt(c *fiber.Ctx) error {
	if h.receipt == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: CodeNotFound, Message: "recibos no habilitados"})
	}
	pdf, filename, err := h.receipt.DownloadSaleReceipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
