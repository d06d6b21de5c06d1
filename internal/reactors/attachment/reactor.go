package attachment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"todos/config"
	"todos/infras/kafka"
	"todos/infras/otel"
	"todos/internal/domains/todo/repository"
	"todos/shared/constant"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Reactor flags a todo as having an image once its object lands in the bucket.
type Reactor interface {
	// Handle marks the todo named by objectKey. A key with no matching record is not an error.
	Handle(ctx context.Context, objectKey string) error
	HandleMessage(ctx context.Context, message kafkaGo.Message) error
	Run(ctx context.Context) error
}

type reactorImpl struct {
	repo   repository.Todo
	kafka  kafka.Client
	config *config.Config
	otel   otel.Otel
}

func New(repo repository.Todo, kafka kafka.Client, config *config.Config, otel otel.Otel) Reactor {
	return &reactorImpl{
		repo:   repo,
		kafka:  kafka,
		config: config,
		otel:   otel,
	}
}

func (r *reactorImpl) Run(ctx context.Context) error {
	log.Info().Str("topic", r.config.Kafka.AttachmentTopic).Msg("attachment reactor started")

	if err := r.kafka.Consume(ctx, r.config.Kafka.ConsumerGroup, r.config.Kafka.AttachmentTopic, r.HandleMessage); err != nil {
		return fmt.Errorf("attachment reactor stopped: %w", err)
	}

	return nil
}

func (r *reactorImpl) HandleMessage(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".attachment.HandleMessage")
	defer scope.End()
	defer scope.TraceIfError(&err)

	var notification events.S3Event
	if err = json.Unmarshal(message.Value, &notification); err != nil {
		log.Error().Err(err).Int64("offset", message.Offset).Msg("failed to decode bucket notification")

		return fmt.Errorf("failed to decode bucket notification: %w", err)
	}

	var errs []error

	for _, record := range notification.Records {
		if !isObjectCreated(record) {
			log.Debug().Str("event", record.EventName).Str("key", record.S3.Object.Key).Msg("ignoring bucket event")

			continue
		}

		if err := r.Handle(ctx, record.S3.Object.Key); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *reactorImpl) Handle(ctx context.Context, objectKey string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".attachment.Handle")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute("object_key", objectKey)

	todoID, err := TodoIDFromKey(objectKey)
	if err != nil {
		log.Warn().Err(err).Str("key", objectKey).Msg("object key does not name a todo")

		return nil
	}

	todo, err := r.repo.GetByID(ctx, todoID)
	if err != nil {
		log.Error().Err(err).Str("todo_id", todoID).Msg("failed to look up todo of uploaded image")

		return fmt.Errorf("failed to look up todo %s: %w", todoID, err)
	}

	if !todo.Exists() {
		log.Warn().Str("todo_id", todoID).Str("key", objectKey).Msg("image uploaded for a todo that does not exist")

		return nil
	}

	if err = r.repo.SetHasImage(ctx, todo.TodoID, todo.OwnerID); err != nil {
		log.Error().Err(err).Str("todo_id", todoID).Msg("failed to flag todo image")

		return fmt.Errorf("failed to flag image on todo %s: %w", todoID, err)
	}

	log.Info().Str("todo_id", todoID).Msg("todo image uploaded")

	return nil
}

// TodoIDFromKey takes the part of the object's base name before the first '.'.
// Keys arrive URL-encoded in bucket notifications.
func TodoIDFromKey(objectKey string) (string, error) {
	key, err := url.QueryUnescape(objectKey)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to decode object key: %w", err)
	}

	todoID, _, _ := strings.Cut(path.Base(key), ".")
	if todoID == "" || todoID == "/" {
		return constant.Empty, fmt.Errorf("empty todo id in object key %q", objectKey) //nolint:err113
	}

	return todoID, nil
}
