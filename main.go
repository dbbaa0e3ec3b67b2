package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logging"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

// run serves until SIGINT or SIGTERM. Nothing listens until the database is
// reachable and migrated, and the broker is connected when configured.
func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Warn("Error closing database")
		}
	}()

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.Enabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		}, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				log.WithError(err).Warn("Error closing RabbitMQ client")
			}
		}()
		publisher = mqClient

		go func() {
			if err := mqClient.Consume(ctx, rabbitmq.LogEvents(log.WithField("component", "events"))); err != nil {
				log.WithError(err).Error("Event consumer stopped")
			}
		}()
	} else {
		log.Info("RABBITMQ_URL not set, event publishing disabled")
	}

	streamCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	app := newApp(streamCtx, cfg, db, publisher, log)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server listening on %s", cfg.Addr())
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	cancelStreams()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Warn("Error during server shutdown")
	}
	return nil
}
