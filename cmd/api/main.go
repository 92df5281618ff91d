package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Tienda-api/internal/application/analytics"
	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/application/orders"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/catalog"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Tienda-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Tienda-api/internal/interfaces/http"
	"github.com/jhoicas/Tienda-api/pkg/config"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Almacén: PostgreSQL en producción, memoria para demos
	var (
		txRunner ports.TxRunner
		repos    ports.Repos
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		if cfg.Store.SeedFile != "" {
			if err := seedCatalog(ctx, store, cfg.Store.SeedFile, log); err != nil {
				log.Fatal().Err(err).Str("file", cfg.Store.SeedFile).Msg("carga del catálogo")
			}
		}
		txRunner, repos = store, store.Repos()
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
				log.Fatal().Err(err).Msg("migraciones de PostgreSQL")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Notificaciones: hub local; con Redis, las escrituras publican en el canal y
	// cada instancia reenvía a su hub lo que llega por él.
	hub := notify.NewHub(cfg.Notify.Buffer, log)
	var notifier ports.ChangeNotifier = hub
	if cfg.Redis.Enabled {
		client, err := notify.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		notifier = notify.NewRedisPublisher(client, cfg.Redis.Channel, log)
		relay := notify.NewRedisRelay(client, cfg.Redis.Channel, hub, log)
		go func() {
			if err := relay.Run(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("relay de cambios finalizado")
			}
		}()
	}

	ledgerUC := inventory.NewLedgerUseCase(txRunner, notifier, log, cfg.Ledger.ConflictRetries)
	historyUC := inventory.NewHistoryUseCase(repos, infrapdf.NewMarotoHistoryReport(), cfg.Ledger.ReadRetries)
	alertUC := inventory.NewAlertUseCase(repos, cfg.Ledger.ReadRetries)
	coordinator := orders.NewFulfillmentCoordinator(txRunner, notifier, log, cfg.Ledger.ConflictRetries)
	orderUC := orders.NewOrderUseCase(txRunner, repos, coordinator, notifier, log, orders.Options{
		ConflictRetries: cfg.Ledger.ConflictRetries,
		ReadRetries:     cfg.Ledger.ReadRetries,
	})
	profitUC := appanalytics.NewProfitUseCase(repos, cfg.Ledger.ReadRetries)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Tienda API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"service":     cfg.App.Name,
			"store":       cfg.Store.Driver,
			"subscribers": hub.Subscribers(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledgerUC,
		History:   historyUC,
		Alerts:    alertUC,
		Orders:    orderUC,
		Profit:    profitUC,
		Events:    hub,
		JWTSecret: cfg.JWT.Secret,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := shutdown(shutdownCtx, app, hub); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// shutdown cierra el hub antes que el servidor: los streams SSE abiertos terminan
// y las conexiones quedan libres para que Shutdown no espere al timeout.
func shutdown(ctx context.Context, app *fiber.App, hub *notify.Hub) error {
	hub.Close()
	return app.ShutdownWithContext(ctx)
}

// seedCatalog carga en el almacén en memoria los productos de un CSV de catálogo.
func seedCatalog(ctx context.Context, store *memory.Store, path string, log *logger.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	products, err := catalog.ReadCSV(f)
	if err != nil {
		return err
	}
	err = store.Run(ctx, func(repos ports.Repos) error {
		for _, p := range products {
			if err := repos.Products.Create(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Int("products", len(products)).Str("file", path).Msg("catálogo cargado en memoria")
	return nil
}
