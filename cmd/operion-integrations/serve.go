package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dukex/operion-integrations/pkg/registry"
	"github.com/dukex/operion-integrations/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

type API struct {
	logger   *slog.Logger
	registry *registry.Registry
	validate *validator.Validate
}

func NewAPI(logger *slog.Logger, registry *registry.Registry) *API {
	return &API{
		logger:   logger,
		registry: registry,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.logger, a.validate, a.registry)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Operion Integrations API")
	})

	handlers.Routes(app)

	return app
}

// Start serves the API until ctx is canceled.
func (a *API) Start(ctx context.Context, port int) error {
	app := a.App()

	go func() {
		<-ctx.Done()

		if err := app.Shutdown(); err != nil {
			a.logger.Error("Failed to shutdown API server", "error", err)
		}
	}()

	a.logger.InfoContext(ctx, "Starting API server", "port", port)

	return app.Listen(":"+strconv.Itoa(port), fiber.ListenConfig{DisableStartupMessage: true})
}

func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serve the node API over HTTP",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			rt, err := openRuntime(ctx, command, "api")
			if err != nil {
				return err
			}
			defer rt.Close(context.WithoutCancel(ctx))

			rt.logger.InfoContext(ctx, "Initializing Operion Integrations API")

			return NewAPI(rt.logger, rt.registry).Start(ctx, command.Int("port"))
		},
	}
}
