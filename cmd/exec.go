package cmd

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"ticket-reservation/config"
	"ticket-reservation/internal/handlers"
	"ticket-reservation/internal/services"
	"ticket-reservation/internal/services/payment"
	"ticket-reservation/internal/store"
	"ticket-reservation/monitoring"
	"ticket-reservation/security"
	"ticket-reservation/utils"

	_ "ticket-reservation/migrations"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize PubNub notifier (optional)
	var notifier services.Notifier = services.NoopNotifier{}
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey

		notifier = services.NewPubNubNotifier(pubnub.NewPubNub(pnConfig))
	}

	// Initialize payment gateway
	gateway, err := payment.NewGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer gateway.Close(ctx)

	slog.Info("payment gateway initialized", "provider", gateway.Provider())

	// Initialize storage
	ledger := store.NewInventoryLedger(app)
	reservations := store.NewReservationStore(app)
	purchases := store.NewPurchaseStore(app)

	// Initialize services
	holdService := services.NewHoldService(ledger, reservations, cfg)
	settlementService := services.NewSettlementService(reservations, gateway, notifier)
	statsService := services.NewStatsService(purchases)
	availabilityService := services.NewAvailabilityService(redisClient, ledger, cfg.AvailabilityTTL)
	reclaimer := services.NewReclaimer(reservations, redisClient, notifier, cfg)
	limiter := security.NewRateLimiter(redisClient, cfg)

	// Initialize handlers
	reservationHandler := handlers.NewReservationHandler(app, holdService, limiter)
	settlementHandler := handlers.NewSettlementHandler(app, settlementService)
	statsHandler := handlers.NewStatsHandler(app, statsService)
	eventHandler := handlers.NewEventHandler(app, availabilityService)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Background workers; started here so the database is ready.
		go reclaimer.Start(ctx)
		go monitoring.NewMonitor(app).Collect(ctx)

		if cfg.EnableMetrics {
			go serveMetrics(cfg.MetricsPort)
		}

		// Reservation endpoints
		e.Router.POST("/api/v1/reservations", reservationHandler.CreateReservation)
		e.Router.GET("/api/v1/reservations", reservationHandler.ListReservations)
		e.Router.POST("/api/v1/reservations/settle", settlementHandler.Settle)

		// Statistics
		e.Router.GET("/api/v1/stats/tickets", statsHandler.TicketStats)

		// Event catalog endpoints
		e.Router.GET("/api/v1/events", eventHandler.ListEvents)
		e.Router.GET("/api/v1/events/{eventId}", eventHandler.GetEvent)
		e.Router.GET("/api/v1/events/{eventId}/ticket-types", eventHandler.ListTicketTypes)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	// Start server
	return app.Start()
}

func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		slog.Error("metrics server stopped", "error", err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
