package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/jhoicas/laptophub-storefront/internal/application/session"
	"github.com/jhoicas/laptophub-storefront/internal/application/usecase"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
	"github.com/jhoicas/laptophub-storefront/internal/infrastructure/api"
	"github.com/jhoicas/laptophub-storefront/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/laptophub-storefront/internal/infrastructure/pdf"
	"github.com/jhoicas/laptophub-storefront/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/laptophub-storefront/internal/interfaces/http"
	"github.com/jhoicas/laptophub-storefront/pkg/config"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

// ServeOptions flags del comando serve.
type ServeOptions struct {
	*RootOptions
	Store   string
	Port    int
	Swagger string
}

// NewServeCommand levanta el servidor HTTP del storefront.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levantar el servidor HTTP",
		Long: `Levanta la API del storefront. La configuración se lee de variables de entorno
(API_BASE_URL, JWT_SECRET, SESSION_STORE, DB_*, CART_*); los flags tienen prioridad.

Ejemplos:
  storefront serve
  storefront serve --store memory --port 4300`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(opts.RootOptions, nil)
			if err != nil {
				return err
			}
			if opts.Store != "" {
				cfg.Session.Store = opts.Store
			}
			if opts.Port > 0 {
				cfg.HTTP.Port = opts.Port
			}
			return runServe(cmd.Context(), cfg, opts.Swagger, log)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "almacén de sesiones (postgres|memory)")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "puerto HTTP")
	cmd.Flags().StringVar(&opts.Swagger, "swagger", "./docs/swagger.json", "documento OpenAPI servido en /docs")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, swaggerFile string, log *logger.Logger) error {
	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET es requerido")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Str("store", cfg.Session.Store).
		Msg("iniciando aplicación")

	sessions, closeStore, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	client := api.NewClient(cfg.API, log)
	productRepo := api.NewProductRepository(client)
	userRepo := api.NewUserRepository(client)

	manager := session.NewManager(ctx, session.Dependencies{
		Carts:    api.NewCartRepository(client),
		Users:    userRepo,
		Orders:   api.NewOrderRepository(client),
		Sessions: sessions,
	}, session.Config{
		Debounce:         cfg.Cart.Debounce,
		StockReloadDelay: cfg.Cart.StockReloadDelay,
		NoticeDuration:   cfg.Cart.NoticeDuration,
		APITimeout:       cfg.API.Timeout,
		IdleTimeout:      cfg.Session.IdleTimeout,
	}, log)
	defer manager.Close()
	if cfg.Session.IdleTimeout > 0 {
		go manager.RunJanitor(ctx, janitorInterval(cfg.Session.IdleTimeout))
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "LaptopHub Storefront API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("documento swagger no encontrado; /docs deshabilitado")
	}

	app.Get("/health", httpRouter.Health(cfg.App.Name, manager.Live))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:  manager,
		CatalogUC: usecase.NewCatalogUseCase(productRepo),
		CompareUC: usecase.NewCompareUseCase(productRepo, 4),
		ProfileUC: usecase.NewProfileUseCase(userRepo),
		Receipts:  infrapdf.NewReceiptGenerator("LaptopHub"),
		JWT:       cfg.JWT,
		Log:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.HTTP.Addr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}

// openSessionStore abre el almacén configurado. El cierre devuelto libera el pool de PostgreSQL.
func openSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.SessionRepository, func(), error) {
	if cfg.Session.Store == "memory" {
		log.Warn().Msg("sesiones en memoria: se pierden al reiniciar")
		return memory.NewSessionStore(), func() {}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return postgres.NewSessionRepository(pool), pool.Close, nil
}

func janitorInterval(idle time.Duration) time.Duration {
	if d := idle / 4; d > time.Minute {
		return d
	}
	return time.Minute
}
