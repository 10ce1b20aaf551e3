package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/pkg/logger"
)

// AppOptions parámetros del servidor fiber.
type AppOptions struct {
	Name       string
	CORSOrigin string // "*" por defecto
}

// NewApp crea la aplicación fiber con los middlewares comunes (recover, CORS y log de peticiones).
// Las rutas se registran aparte con Router.
func NewApp(log *logger.Logger, opts AppOptions) *fiber.App {
	origin := opts.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		UnescapePath: true,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origin,
		AllowHeaders:  "Origin, Content-Type, Accept, " + HeaderIdempotencyKey + ", " + HeaderRequestID,
		ExposeHeaders: HeaderRequestID + ", Content-Disposition",
	}))
	app.Use(RequestLogger(log))
	return app
}

// errorHandler cubre lo que no pasa por writeError: rutas inexistentes, métodos no permitidos y panics.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = CodeInvalidBody
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
