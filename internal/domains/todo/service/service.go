package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Todo=MockTodoService

import (
	"context"
	"fmt"
	"todos/config"
	"todos/infras/otel"
	"todos/internal/domains/todo/attachment"
	"todos/internal/domains/todo/model"
	"todos/internal/domains/todo/model/dto"
	"todos/internal/domains/todo/repository"
	"todos/shared"
	"todos/shared/constant"
	"todos/shared/failure"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize        = 5
	defaultLinkConcurrency = 5
)

// Todo is the per-user todo API. userID is always the verified caller.
type Todo interface {
	Create(ctx context.Context, userID string, req dto.CreateTodoRequest) (dto.TodoResponse, error)
	List(ctx context.Context, userID string) (dto.GetTodosResponse, error)
	Get(ctx context.Context, userID, todoID string) (dto.TodoResponse, error)
	Update(ctx context.Context, userID, todoID string, req dto.UpdateTodoRequest) error
	Delete(ctx context.Context, userID, todoID string) error
	IssueUploadLink(ctx context.Context, userID, todoID string) (dto.UploadURLResponse, error)
}

type serviceImpl struct {
	repo            repository.Todo
	attachment      attachment.Attachment
	otel            otel.Otel
	pageSize        int
	linkConcurrency int
}

func New(repo repository.Todo, attachment attachment.Attachment, cfg *config.Config, otel otel.Otel) Todo {
	pageSize := cfg.Todo.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	linkConcurrency := cfg.Todo.LinkConcurrency
	if linkConcurrency <= 0 {
		linkConcurrency = defaultLinkConcurrency
	}

	return &serviceImpl{
		repo:            repo,
		attachment:      attachment,
		otel:            otel,
		pageSize:        pageSize,
		linkConcurrency: linkConcurrency,
	}
}

func (s *serviceImpl) Create(ctx context.Context, userID string, req dto.CreateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	todo := req.ToModel(userID)

	if err = s.repo.Put(ctx, todo); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to create todo")

		return res, fmt.Errorf("failed to create todo: %w", err)
	}

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, userID string) (res dto.GetTodosResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(&err)

	models, err := s.repo.GetByOwner(ctx, userID, s.pageSize)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get todos")

		return res, fmt.Errorf("failed to get todos: %w", err)
	}

	res.FromModels(models)

	var group errgroup.Group
	group.SetLimit(s.linkConcurrency)

	for i, todo := range models {
		if !todo.HasImage {
			continue
		}

		group.Go(func() error {
			res.Items[i].AttachmentURL = s.downloadURL(ctx, todo.TodoID)

			return nil
		})
	}

	_ = group.Wait()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, userID, todoID string) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	todo, err := s.lookup(ctx, userID, todoID)
	if err != nil {
		return res, err
	}

	res.FromModel(todo)

	if todo.HasImage {
		res.AttachmentURL = s.downloadURL(ctx, todo.TodoID)
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, userID, todoID string, req dto.UpdateTodoRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.lookup(ctx, userID, todoID); err != nil {
		return err
	}

	if err = s.repo.UpdateFields(ctx, todoID, userID, shared.TransformFields(req)); err != nil {
		log.Error().Err(err).Str("todo_id", todoID).Msg("failed to update todo")

		return fmt.Errorf("failed to update todo: %w", err)
	}

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, userID, todoID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.lookup(ctx, userID, todoID); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, todoID, userID); err != nil {
		log.Error().Err(err).Str("todo_id", todoID).Msg("failed to delete todo")

		return fmt.Errorf("failed to delete todo: %w", err)
	}

	// The record is gone either way; a leftover image is only logged.
	if delErr := s.attachment.Delete(ctx, todoID); delErr != nil {
		log.Warn().Err(delErr).Str("todo_id", todoID).Msg("failed to delete attachment of deleted todo")
	}

	return nil
}

func (s *serviceImpl) IssueUploadLink(ctx context.Context, userID, todoID string) (res dto.UploadURLResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IssueUploadLink")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.lookup(ctx, userID, todoID); err != nil {
		return res, err
	}

	res.URL, err = s.attachment.UploadURL(ctx, todoID)
	if err != nil {
		log.Error().Err(err).Str("todo_id", todoID).Msg("failed to issue upload url")

		return res, fmt.Errorf("failed to issue upload url: %w", err)
	}

	return res, nil
}

// lookup loads the record and checks existence before ownership.
func (s *serviceImpl) lookup(ctx context.Context, userID, todoID string) (model.Todo, error) {
	todo, err := s.repo.GetByID(ctx, todoID)
	if err != nil {
		log.Error().Err(err).Str("todo_id", todoID).Msg("failed to get todo")

		return todo, fmt.Errorf("failed to get todo: %w", err)
	}

	if !todo.Exists() {
		return todo, failure.TodoNotFoundError
	}

	if todo.OwnerID != userID {
		log.Warn().Str("todo_id", todoID).Str("user_id", userID).Msg("todo accessed by a user that does not own it")

		return todo, failure.NotOwnerError
	}

	return todo, nil
}

// downloadURL returns "" when the image is missing or its link cannot be issued.
func (s *serviceImpl) downloadURL(ctx context.Context, todoID string) string {
	url, found, err := s.attachment.DownloadURL(ctx, todoID)
	if err != nil {
		log.Error().Err(err).Str("todo_id", todoID).Msg("failed to resolve attachment url")

		return constant.Empty
	}

	if !found {
		log.Debug().Str("todo_id", todoID).Msg("todo flagged with image but object is missing")

		return constant.Empty
	}

	return url
}
