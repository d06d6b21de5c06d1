package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"todos/config"
	"todos/di"
	"todos/shared/logger"

	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

func main() {
	topic := flag.StringP("topic", "t", "", "override the object notification topic")
	group := flag.StringP("group", "g", "", "override the consumer group")
	flag.Parse()

	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if *topic != "" {
		cfg.Kafka.AttachmentTopic = *topic
	}

	if *group != "" {
		cfg.Kafka.ConsumerGroup = *group
	}

	reactor, cleanup, err := di.InitializeReactor()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize reactor")
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("topic", cfg.Kafka.AttachmentTopic).Str("group", cfg.Kafka.ConsumerGroup).Msg("Starting attachment reactor")

	if err := reactor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Attachment reactor stopped")

		return
	}

	log.Info().Msg("Attachment reactor stopped")
}
