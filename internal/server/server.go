package server

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tickethub/config"
	"tickethub/internal/handlers"
	"tickethub/internal/mailer"
	"tickethub/internal/middleware"
	"tickethub/internal/payments"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	payCfg := config.LoadPaymentConfig()
	var provider payments.Provider
	if payCfg.APIURL != "" {
		provider = payments.NewHTTPProvider(payCfg.APIURL, payCfg.ClientID, payCfg.SecretKey)
	} else {
		if cfg.IsProduction() {
			return fmt.Errorf("PAYMENT_API_URL must be set in production")
		}
		log.Println("no payment processor configured, using the simulator")
		provider = payments.NewSimulator()
	}

	mailCfg := config.LoadMailConfig()
	var sender mailer.Sender
	if mailCfg.Host != "" {
		sender = mailer.NewSMTPSender(mailCfg.Host, mailCfg.Port, mailCfg.Username, mailCfg.Password, mailCfg.From)
	} else {
		log.Println("no SMTP relay configured, logging emails instead")
		sender = mailer.NewLogSender()
	}

	r := gin.Default()

	setupRoutes(r, db, provider, sender, cfg)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, provider payments.Provider, sender mailer.Sender, cfg *config.Config) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.PaymentMiddleware(provider))
	r.Use(middleware.MailerMiddleware(sender))

	api := r.Group("/api/v1")
	{
		api.POST("/auth", handlers.Login)
		api.GET("/auth", middleware.JWTAuthMiddleware(), handlers.VerifySession)
		api.DELETE("/auth", handlers.Logout)

		api.POST("/register", handlers.RegisterAttendee)

		api.GET("/ticket/:token", handlers.GetTicketByToken)
		api.GET("/ticket/:token/qr", handlers.GetTicketQR)
		api.POST("/ticket/:token/checkin", handlers.CheckInTicket)

		api.POST("/payment/webhook", handlers.PaymentWebhook)

		tenant := api.Group("/:tenant", middleware.TenantMiddleware())
		{
			tenant.GET("/events", handlers.ListPublicEvents)
			tenant.GET("/events/:slug", handlers.GetPublicEvent)

			admin := tenant.Group("/admin", middleware.JWTAuthMiddleware(), middleware.RequireTenantAdmin())
			{
				admin.GET("/events", handlers.ListEvents)
				admin.POST("/events", handlers.CreateEvent)
				admin.GET("/events/:id", handlers.GetEvent)
				admin.PUT("/events/:id", handlers.UpdateEvent)
				admin.DELETE("/events/:id", handlers.DeleteEvent)

				admin.GET("/events/:id/ticket-types", handlers.ListTicketTypes)
				admin.POST("/events/:id/ticket-types", handlers.CreateTicketType)
				admin.PUT("/events/:id/ticket-types/:ttid", handlers.UpdateTicketType)
				admin.DELETE("/events/:id/ticket-types/:ttid", handlers.DeleteTicketType)
			}
		}
	}

	// Development-only payment bypass. Never registered in production.
	if !cfg.IsProduction() {
		dev := r.Group("/dev")
		dev.POST("/simulate-payment", handlers.SimulatePayment)
	}
}
