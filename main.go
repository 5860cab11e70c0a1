package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"hotel-channel/codemap"
	"hotel-channel/config"
	"hotel-channel/controllers"
	"hotel-channel/models"
	"hotel-channel/routes"
	"hotel-channel/services"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	channelCfg, err := config.LoadChannelConfig()
	if err != nil {
		log.Fatalf("❌ Channel config invalid: %v", err)
	}
	log.Println("✅ PMS channel config loaded.")

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Wire the channel adapter
	mapper := codemap.New(channelCfg.RoomCodes, channelCfg.RatePlanCodes, log)
	store := services.NewGormStore(db)
	transport := services.NewPMSTransport(channelCfg, log)
	reconciliation := services.NewReconciliationService(store, transport, mapper, channelCfg, log)
	syncService := services.NewSyncService(store, transport, mapper, channelCfg, log)

	// Downstream side-effects on confirmation run exactly once per booking.
	// Email dispatch lives with the notification collaborator; here we only
	// leave an audit trail.
	reconciliation.SetConfirmationHook(func(booking *models.ExternalBooking) {
		log.WithFields(logrus.Fields{
			"correlation_id": booking.CorrelationID,
			"pms_number":     booking.PMSReservationNumber,
			"guest_email":    booking.GuestEmail,
		}).Info("booking confirmed, notifying collaborators")
	})

	bookingController := controllers.NewBookingController(reconciliation, syncService)
	pmsController := controllers.NewPMSController(syncService, reconciliation, channelCfg, log)

	router := routes.SetupRouter(bookingController, pmsController, log)

	// Background availability pull, decoupled from webhook traffic.
	syncCtx, cancelSync := context.WithCancel(context.Background())
	go syncService.RunPeriodicPull(syncCtx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	cancelSync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
