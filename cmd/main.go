package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"vessel-tracker/internal/ais"
	"vessel-tracker/internal/config"
	"vessel-tracker/internal/infrastructure/database/postgres"
	"vessel-tracker/internal/logger"
	"vessel-tracker/internal/routes"
	"vessel-tracker/internal/tracking"
	"vessel-tracker/pkg/mqtt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is missing. Please set JWT_SECRET environment variable.")
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient = mqtt.NewClient(&mqtt.Config{
			Broker:               cfg.MQTT.Broker,
			ClientID:             cfg.MQTT.ClientID,
			Username:             cfg.MQTT.Username,
			Password:             cfg.MQTT.Password,
			KeepAlive:            30,
			ConnectTimeout:       10,
			AutoReconnect:        true,
			MaxReconnectInterval: time.Minute,
		})
		if err := mqttClient.Connect(); err != nil {
			logger.Warn("MQTT broker unreachable, events disabled", zap.Error(err))
			mqttClient = nil
		} else {
			defer mqttClient.Disconnect()
		}
	}

	vesselRepository := postgres.NewVesselRepository(db)
	positionRepository := postgres.NewPositionRepository(db)

	providers := []ais.Provider{
		ais.NewMarineSiaProvider(cfg.AIS, logger.Logger),
		ais.NewAISHubProvider(cfg.AIS, logger.Logger),
		ais.NewMarineTrafficProvider(cfg.AIS, logger.Logger),
	}
	weather := ais.NewStormGlassProvider(cfg.AIS, logger.Logger)
	aggregator := ais.NewAggregator(
		providers,
		tracking.NewLocalSource(vesselRepository),
		weather,
		cfg.AIS.CacheTTL,
		logger.Logger,
	)

	publisher := tracking.NewPublisher(mqttClient, logger.Logger)
	store := tracking.NewStore(vesselRepository, positionRepository, publisher, cfg.Tracking.RequireNewer, logger.Logger)
	metrics := tracking.NewMetricsTracker()

	scheduler := tracking.NewScheduler(
		cfg.Tracking,
		vesselRepository,
		positionRepository,
		aggregator,
		store,
		publisher,
		metrics,
		logger.Logger,
	)
	scheduler.Start()
	defer scheduler.Stop()

	router := routes.SetupRoutes(cfg, db, aggregator, store, metrics)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}
