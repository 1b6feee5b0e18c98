package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ukydev/fleet-lifecycle/internal/alerts"
	"github.com/ukydev/fleet-lifecycle/internal/analysis"
	"github.com/ukydev/fleet-lifecycle/internal/auth"
	"github.com/ukydev/fleet-lifecycle/internal/config"
	"github.com/ukydev/fleet-lifecycle/internal/db"
	"github.com/ukydev/fleet-lifecycle/internal/handlers"
	"github.com/ukydev/fleet-lifecycle/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	if err := cfg.ConfigureLogging(); err != nil {
		log.WithError(err).Fatal("Invalid logging configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	client, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())
	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}

	publisher := newPublisher(cfg)
	defer publisher.Close()

	engine := analysis.NewEngine(cfg.Analysis)
	assets := db.NewMongoAssetCollection(client, cfg.MongoDB, cfg.MongoCollection)
	router := handlers.NewRouter(handlers.RouterConfig{
		AuthService:       authService,
		Auth:              handlers.NewAuthHandler(authService, buildOperators(cfg, client)),
		Analysis:          handlers.NewAnalysisHandler(engine, assets, analysis.SystemClock{}, publisher),
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"port":      cfg.Port,
			"threshold": engine.Config().ApproachingThresholdMonths,
			"workers":   engine.Config().Workers,
		}).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildOperators serves the configured operator first and falls back to the
// operators collection.
func buildOperators(cfg *config.Config, client *mongo.Client) db.OperatorStore {
	var stores db.FallbackOperators
	if cfg.OperatorPasswordHash != "" {
		stores = append(stores, db.StaticOperators{
			cfg.OperatorUsername: {
				Username:     cfg.OperatorUsername,
				PasswordHash: cfg.OperatorPasswordHash,
				Role:         models.RoleAdmin,
			},
		})
	} else {
		log.Warn("OPERATOR_PASSWORD_HASH not set, only operators stored in MongoDB can log in")
	}
	if client != nil {
		stores = append(stores, &db.MongoOperatorCollection{Collection: client.Database(cfg.MongoDB).Collection("operators")})
	}
	return stores
}

func newPublisher(cfg *config.Config) alerts.Publisher {
	if cfg.MQTTBroker == "" {
		log.Info("MQTT_BROKER not set, critical alerts will not be published")
		return alerts.NoopPublisher{}
	}
	p, err := alerts.ConnectMQTT(alerts.MQTTConfig{
		Broker:   cfg.MQTTBroker,
		ClientID: cfg.MQTTClientID,
		Topic:    cfg.MQTTTopic,
		QoS:      1,
	})
	if err != nil {
		log.WithError(err).Error("MQTT unavailable, critical alerts will not be published")
		return alerts.NoopPublisher{}
	}
	return p
}
