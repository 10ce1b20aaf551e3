package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	"github.com/jhoicas/inventory-sales-api/docs"
	appanalytics "github.com/jhoicas/inventory-sales-api/internal/application/analytics"
	"github.com/jhoicas/inventory-sales-api/internal/application/inventory"
	"github.com/jhoicas/inventory-sales-api/internal/application/sales"
	"github.com/jhoicas/inventory-sales-api/internal/application/usecase"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
	"github.com/jhoicas/inventory-sales-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventory-sales-api/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-sales-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/inventory-sales-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/inventory-sales-api/internal/interfaces/http"
	"github.com/jhoicas/inventory-sales-api/pkg/config"
	"github.com/jhoicas/inventory-sales-api/pkg/logger"
)

// storage repositorios y TxRunner del backend elegido por STORAGE_DRIVER.
type storage struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	sales     repository.SaleRepository
	txRunner  inventory.TxRunner
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage.Driver).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Idempotencia de ventas: solo si hay Redis configurado.
	var guard sales.IdempotencyGuard
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		guard = infraredis.NewIdempotencyGuard(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotencia de ventas habilitada")
	}

	productUC := usecase.NewProductUseCase(store.txRunner, store.products)
	registerMovementUC := inventory.NewRegisterMovementUseCase(store.txRunner)
	movementQueryUC := inventory.NewMovementQueryUseCase(store.movements)
	registerSaleUC := sales.NewRegisterSaleUseCase(store.txRunner, guard)
	saleQueryUC := sales.NewSaleQueryUseCase(store.sales)
	receiptUC := sales.NewReceiptUseCase(store.sales, infrapdf.NewMarotoReceiptGenerator(cfg.App.Name), cfg.App.Currency)
	dashboardUC := appanalytics.NewDashboardUseCase(store.products, store.movements, store.sales)

	app := httpRouter.NewApp(log, httpRouter.AppOptions{
		Name:       cfg.App.Name,
		CORSOrigin: cfg.HTTP.CORSOrigin,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Type("json")
		return c.SendString(doc)
	})
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		RegisterMovement: registerMovementUC,
		MovementQuery:    movementQueryUC,
		RegisterSale:     registerSaleUC,
		SaleQuery:        saleQueryUC,
		Receipt:          receiptUC,
		DashboardUC:      dashboardUC,
		StorageDriver:    cfg.Storage.Driver,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage construye el backend indicado en la configuración. Con postgres aplica las
// migraciones pendientes si DB_AUTO_MIGRATE está activo.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if cfg.DB.AutoMigrate {
			applied, err := postgres.NewMigrator(pool).Up(ctx)
			if err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Strs("applied", applied).Msg("migraciones al día")
		}
		return &storage{
			products:  postgres.NewProductRepository(pool),
			movements: postgres.NewMovementRepository(pool),
			sales:     postgres.NewSaleRepository(pool),
			txRunner:  postgres.NewTxRunner(pool),
			close:     pool.Close,
		}, nil
	default:
		mem := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			products:  memory.NewProductRepository(mem),
			movements: memory.NewMovementRepository(mem),
			sales:     memory.NewSaleRepository(mem),
			txRunner:  memory.NewTxRunner(mem),
			close:     func() {},
		}, nil
	}
}
