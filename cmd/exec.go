package cmd

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go/v7"

	"payper-storefront/config"
	"payper-storefront/handlers"
	"payper-storefront/internal/services/mercadopago"
	_ "payper-storefront/migrations"
	"payper-storefront/security"
	"payper-storefront/services"
	"payper-storefront/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient, err := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer redisClient.Close()

	// Initialize PubNub (optional, realtime payment notifications)
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.PubNubUUID))
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnConfig)
	}

	// Initialize gateway and mail clients
	gateway := mercadopago.NewClient(&mercadopago.Config{
		BaseURL:             cfg.MercadoPago.BaseURL,
		AccessToken:         cfg.MercadoPago.AccessToken,
		WebhookSecret:       cfg.MercadoPago.WebhookSecret,
		Currency:            cfg.MercadoPago.Currency,
		StatementDescriptor: cfg.MercadoPago.StatementDescriptor,
	}, cfg.GatewayTimeout)

	mailService := services.NewMailService(cfg.Resend.BaseURL, cfg.Resend.APIKey, cfg.Resend.FromAddress, cfg.MailTimeout)

	// Initialize services
	catalogService := services.NewCatalogService(app, redisClient)
	orderService := services.NewOrderService(app, catalogService, mailService, cfg.MercadoPago.Currency)
	paymentService := services.NewPaymentService(app, redisClient, gateway, pn, cfg.WebBaseURL)
	ticketService := services.NewTicketService(app)
	profileService := services.NewProfileService(app)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(catalogService)
	purchaseHandler := handlers.NewPurchaseHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, orderService)
	ticketHandler := handlers.NewTicketHandler(orderService, ticketService)
	profileHandler := handlers.NewProfileHandler(profileService)
	uploadHandler := handlers.NewUploadHandler(profileService, cfg.MaxAvatarSize)
	mailHandler := handlers.NewMailHandler(mailService)

	rateLimiter := security.NewRateLimiter(redisClient)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: cfg.Environment == "development",
	})

	// Setup graceful shutdown
	go handleShutdown()

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		buyer := handlers.RequireBuyer
		purchaseLimit := rateLimiter.Limit("purchase", 10, time.Minute)
		webhookLimit := rateLimiter.Limit("webhook", 120, time.Minute)

		// Catalog endpoints
		e.Router.GET("/api/events", rateLimiter.AntiBot(eventHandler.ListEvents))
		e.Router.GET("/api/events/{eventId}", rateLimiter.AntiBot(eventHandler.GetEvent))

		// Checkout endpoints
		e.Router.POST("/api/purchase", purchaseLimit(buyer(purchaseHandler.CreatePurchase)))
		e.Router.POST("/api/payment", purchaseLimit(buyer(paymentHandler.CreatePayment)))
		e.Router.GET("/api/payment", buyer(paymentHandler.GetPayment))

		// Gateway webhook (no session; signature verified instead)
		e.Router.POST("/api/payment/webhook", webhookLimit(paymentHandler.Webhook))
		e.Router.GET("/api/payment/webhook", webhookLimit(paymentHandler.WebhookLookup))

		// Ticket endpoints
		e.Router.GET("/api/tickets", buyer(ticketHandler.ListTickets))
		e.Router.GET("/api/orders/{orderId}/qr", buyer(ticketHandler.OrderQR))
		e.Router.GET("/api/orders/{orderId}/qr/download", buyer(ticketHandler.DownloadOrderQR))

		// Profile endpoints
		e.Router.GET("/api/profile", buyer(profileHandler.GetProfile))
		e.Router.PUT("/api/profile", buyer(profileHandler.UpdateProfile))
		e.Router.POST("/api/upload/avatar", buyer(uploadHandler.UploadAvatar))
		e.Router.DELETE("/api/upload/avatar", buyer(uploadHandler.DeleteAvatar))

		// Mail endpoint
		e.Router.POST("/api/mails", buyer(mailHandler.SendMail))

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
		})

		// Metrics
		if cfg.EnableMetrics {
			e.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
		}

		log.Println("Server routes registered")

		return e.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// handleShutdown handles graceful shutdown
func handleShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
}
