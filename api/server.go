package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/swagger"
	_ "github.com/pyneda/kansa/docs"
	"github.com/pyneda/kansa/pkg/crawl"
	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan/control"
	"github.com/pyneda/kansa/pkg/scan/discovery"
	"github.com/pyneda/kansa/pkg/scan/orchestrator"
	"github.com/pyneda/kansa/pkg/sessions"
	"github.com/pyneda/kansa/pkg/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// @title Kansa API
// @version 0.1
// @description The Kansa API documentation.
func StartAPI() {
	apiLogger := log.With().Str("type", "api").Logger()

	apiLogger.Info().Msg("Initializing...")
	bus := events.NewBus()
	sessionStore := sessions.NewStore(sessions.ConfigFromViper())
	controls := control.NewRegistry()
	store := storage.NewStore(storage.ConfigFromViper())

	// A nil *storage.Store wrapped in the interface would not compare equal
	// to nil inside the engine, so only assign when archiving is on.
	var archiver orchestrator.Archiver
	if store.Enabled() {
		archiver = store
	}

	engine := orchestrator.NewEngine(orchestrator.ConfigFromViper(), bus, sessionStore, controls, archiver)
	runner := discovery.NewRunner(crawl.Options{}, bus, sessionStore, controls)
	sessionStore.Start()

	apiLogger.Info().Msg("Initialized everything. Starting the API...")

	app := fiber.New(fiber.Config{
		ServerHeader: "Kansa",
		AppName:      "Kansa API",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(viper.GetStringSlice("api.cors.origins"), ","),
		AllowHeaders:  "Origin, Content-Type, Accept",
		ExposeHeaders: "Content-Disposition",
	}))

	app.Use(fiberzerolog.New(fiberzerolog.Config{
		Logger: &apiLogger,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API Running")
	})

	if viper.GetBool("api.docs.enabled") {
		app.Get(fmt.Sprintf("%v/*", viper.GetString("api.docs.path")), swagger.HandlerDefault)
	}

	if viper.GetBool("api.metrics.enabled") {
		app.Get(fmt.Sprintf("%v/*", viper.GetString("api.metrics.path")), monitor.New(monitor.Config{Title: viper.GetString("api.metrics.title")}))
	}

	api := app.Group("/api/v1")
	api.Use(func(c *fiber.Ctx) error {
		c.Locals("engine", engine)
		c.Locals("runner", runner)
		return c.Next()
	})

	api.Get("/scans", ListScansHandler)
	scan_app := api.Group("/scan")
	scan_app.Post("/", submissionLimiter(), SubmitScanHandler)
	scan_app.Get("/:id", ScanStatusHandler)
	scan_app.Get("/:id/results", ScanResultsHandler)
	scan_app.Get("/:id/stream", ScanStreamHandler)
	scan_app.Get("/:id/report", ScanReportHandler)
	scan_app.Get("/:id/versions", ListVersionsHandler)
	scan_app.Post("/:id/versions", AddVersionHandler)
	scan_app.Post("/:id/cancel", CancelScanHandler)

	api.Get("/discoveries", ListDiscoveriesHandler)
	discovery_app := api.Group("/discovery")
	discovery_app.Post("/", submissionLimiter(), SubmitDiscoveryHandler)
	discovery_app.Get("/:id", DiscoveryStatusHandler)
	discovery_app.Get("/:id/pages", DiscoveryPagesHandler)
	discovery_app.Get("/:id/stream", DiscoveryStreamHandler)
	discovery_app.Post("/:id/cancel", CancelDiscoveryHandler)

	listen_address := fmt.Sprintf("%v:%v", viper.Get("api.listen.host"), viper.Get("api.listen.port"))
	if err := app.Listen(listen_address); err != nil {
		apiLogger.Warn().Err(err).Msg("Error starting server")
	}
}
