// worker consumes app events from Kafka and ships them to Loki.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"constituent-connect/backend/internal/config"
	"constituent-connect/backend/internal/telemetry/loki"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", "error", err)
		os.Exit(1)
	}
	brokers := cfg.EventsKafkaBrokersList()
	if len(brokers) == 0 {
		log.Error("KAFKA_BROKERS is not set")
		os.Exit(1)
	}
	if cfg.LokiURL == "" {
		log.Error("LOKI_URL is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    cfg.EventsKafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10 << 20,
	})
	defer reader.Close()

	log.Info("events worker consuming", "topic", cfg.EventsKafkaTopic, "group", cfg.KafkaGroupID)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("shutting down")
				return
			}
			log.Error("fetch message", "error", err)
			time.Sleep(time.Second)
			continue
		}

		pushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = loki.PushEventJSON(pushCtx, cfg.LokiURL, msg.Value)
		cancel()
		if err != nil {
			// leave the offset uncommitted; the message is retried on the
			// next fetch after Loki recovers
			log.Warn("push to loki", "error", err, "offset", msg.Offset)
			time.Sleep(time.Second)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("commit offset", "error", err, "offset", msg.Offset)
		}
	}
}
