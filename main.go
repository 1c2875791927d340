package main

import (
	stdlog "log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kariqs/amexan-storefront/apiclient"
	"github.com/Kariqs/amexan-storefront/controllers"
	"github.com/Kariqs/amexan-storefront/initializers"
	"github.com/Kariqs/amexan-storefront/journal"
	"github.com/Kariqs/amexan-storefront/routes"
	"github.com/Kariqs/amexan-storefront/services"
	"github.com/Kariqs/amexan-storefront/utils"
)

func main() {
	envErr := initializers.LoadEnv()

	cfg, err := initializers.LoadConfig()
	if err != nil {
		stdlog.Fatalf("loading config: %v", err)
	}

	log, err := initializers.InitLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("initializing logger: %v", err)
	}
	defer log.Sync()

	if envErr != nil {
		log.Debug("no .env file loaded", zap.Error(envErr))
	}

	if err := initializers.ConnectToDB(cfg.DBURL, log); err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	if err := initializers.SyncDatabase(initializers.DB, log); err != nil {
		log.Fatal("database sync failed", zap.Error(err))
	}

	client := apiclient.New(cfg.API, log.Named("api"))

	carts := services.NewCartService(client, client, services.CartOptions{
		MissingProduct:    cfg.MissingProductPolicy,
		LookupConcurrency: cfg.LookupConcurrency,
	}, log)

	handler := &controllers.Handler{
		Carts: carts,
		History: services.NewHistoryService(client, client, services.HistoryOptions{
			NamePolicy:        cfg.OrderItemNamePolicy,
			LookupConcurrency: cfg.LookupConcurrency,
		}, log),
		Admin:   services.NewAdminService(client, log),
		Catalog: client,
		Log:     log,
	}

	var checkoutJournal services.Journal
	if initializers.DB != nil {
		store := journal.NewStore(initializers.DB, log)
		checkoutJournal = store
		handler.Journal = store
	}

	var notifier services.Notifier
	if cfg.Mail.Enabled() {
		notifier = utils.NewOrderMailer(cfg.Mail, log)
	}

	handler.Orders = services.NewCheckoutService(carts, client, client, checkoutJournal, notifier, log)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", cfg.API.AuthHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.Register(server, handler, cfg.API.AuthHeader)

	log.Info("storefront listening", zap.String("port", cfg.Port), zap.String("api", cfg.API.BaseURL))
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
