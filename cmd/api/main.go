package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/procurement-api/docs"
	"github.com/jhoicas/procurement-api/internal/application/auth"
	"github.com/jhoicas/procurement-api/internal/application/category"
	"github.com/jhoicas/procurement-api/internal/application/inventory"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/application/purchasing"
	"github.com/jhoicas/procurement-api/internal/application/usecase"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/internal/infrastructure/mail"
	"github.com/jhoicas/procurement-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/procurement-api/internal/infrastructure/pdf"
	"github.com/jhoicas/procurement-api/internal/infrastructure/postgres"
	"github.com/jhoicas/procurement-api/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/procurement-api/internal/interfaces/http"
	"github.com/jhoicas/procurement-api/migrations"
	"github.com/jhoicas/procurement-api/pkg/config"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

// @title        Procurement API
// @version      1.0
// @description  Categorías, órdenes de compra, envíos e inventario.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		repos    repository.Repos
		txRunner ports.TxRunner
	)
	switch cfg.DB.Driver {
	case "memory":
		store := memory.NewStore()
		repos = store.Repos()
		txRunner = store
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		pgRunner := postgres.NewTxRunner(pool)
		applied, err := pgRunner.Migrate(ctx, migrations.FS)
		if err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
		repos = postgres.NewRepos(pool)
		txRunner = pgRunner
	}

	// Correo: SMTP si está configurado, si no solo se registra en el log.
	var notifier ports.Notifier = mail.NewLogNotifier(log.Component("mail"))
	if cfg.Mail.Enabled() {
		notifier = mail.NewSMTPNotifier(cfg.Mail)
	}
	asyncNotifier := mail.NewAsyncNotifier(notifier, cfg.Mail.QueueSize, log.Component("mail"))
	notifyCtx, stopNotify := context.WithCancel(ctx)
	asyncNotifier.Start(notifyCtx)

	ledgerUC := inventory.NewLedgerUseCase(
		txRunner,
		repos.Inventory,
		asyncNotifier,
		inventory.Config{LowStockRecipients: cfg.Procurement.LowStockAlertTo},
		log.Component("inventory"),
	)
	purchaseOrderUC := purchasing.NewPurchaseOrderUseCase(
		repos,
		txRunner,
		ledgerUC,
		infrapdf.NewMarotoPDFGenerator(cfg.Procurement.BuyerName),
		ubl.NewOrderBuilder(cfg.Procurement.BuyerName),
		asyncNotifier,
		purchasing.Config{
			DefaultCurrency: cfg.Procurement.DefaultCurrency,
			NumberPrefix:    cfg.Procurement.PONumberPrefix,
			BuyerName:       cfg.Procurement.BuyerName,
		},
		log.Component("purchasing"),
	)
	shipmentUC := purchasing.NewShipmentUseCase(repos, txRunner, purchaseOrderUC, log.Component("shipments"))
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Inventory, repos.Products)
	categoryUC := category.NewCategoryUseCase(repos.Categories, txRunner, log.Component("categories"), cfg.Procurement.MaxTreeDepth)
	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Procurement API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		UserUC:          usecase.NewUserUseCase(repos.Users),
		CategoryUC:      categoryUC,
		ProductUC:       usecase.NewProductUseCase(repos.Products, repos.Categories),
		SupplierUC:      usecase.NewSupplierUseCase(repos.Suppliers, cfg.Procurement.DefaultCurrency),
		LocationUC:      usecase.NewLocationUseCase(repos.Locations),
		PurchaseOrderUC: purchaseOrderUC,
		ShipmentUC:      shipmentUC,
		LedgerUC:        ledgerUC,
		ReplenishmentUC: replenishmentUC,
		JWTSecret:       cfg.JWT.Secret,
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

	// Vacía la cola de correos pendientes antes de salir.
	asyncNotifier.Stop()
	stopNotify()

	log.Info().Msg("aplicación detenida")
}
