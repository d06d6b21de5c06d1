package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"todos/infras/otel"
	"todos/infras/postgres"
	"todos/internal/domains/todo/model"
	"todos/shared"
	"todos/shared/constant"
	gDto "todos/shared/dto"
	gRepo "todos/shared/repository"

	"github.com/rs/zerolog/log"
)

// Todo is the record store. Every mutation is keyed by (todoID, ownerID).
type Todo interface {
	// GetByID returns the zero Todo when no record has todoID.
	GetByID(ctx context.Context, todoID string) (model.Todo, error)
	GetByOwner(ctx context.Context, ownerID string, limit int) ([]model.Todo, error)
	Put(ctx context.Context, todo model.Todo) error
	UpdateFields(ctx context.Context, todoID, ownerID string, fields map[string]any) error
	SetHasImage(ctx context.Context, todoID, ownerID string) error
	Delete(ctx context.Context, todoID, ownerID string) error
}

type repositoryImpl struct {
	base gRepo.Table[model.Todo]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Todo {
	return &repositoryImpl{
		base: gRepo.NewTable[model.Todo](model.EntityName, model.TableName, model.FieldTodoID, db, otel),
		otel: otel,
	}
}

func byKey(todoID, ownerID string) gDto.FilterGroup {
	return shared.FilterByKey(model.TableName,
		shared.KeyValue{Field: model.FieldTodoID, Value: todoID},
		shared.KeyValue{Field: model.FieldOwnerID, Value: ownerID},
	)
}

func (r *repositoryImpl) GetByID(ctx context.Context, todoID string) (todo model.Todo, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.GetByID")
	defer scope.End()

	todo, err = r.base.Get(ctx, shared.FilterByID(todoID, model.FieldTodoID, model.TableName))
	if err != nil {
		return todo, fmt.Errorf("failed to get todo %s: %w", todoID, err)
	}

	return todo, nil
}

func (r *repositoryImpl) GetByOwner(ctx context.Context, ownerID string, limit int) (todos []model.Todo, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.GetByOwner")
	defer scope.End()

	params := gDto.NewQueryParams(limit, model.TableName+"."+constant.DefaultValueSortBy, constant.DefaultValueSortDir)

	todos, err = r.base.Select(ctx, params, shared.FilterByID(ownerID, model.FieldOwnerID, model.TableName))
	if err != nil {
		return nil, fmt.Errorf("failed to list todos of %s: %w", ownerID, err)
	}

	if todos == nil {
		todos = []model.Todo{}
	}

	return todos, nil
}

func (r *repositoryImpl) Put(ctx context.Context, todo model.Todo) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.Put")
	defer scope.End()

	if err := r.base.Upsert(ctx, todo); err != nil {
		return fmt.Errorf("failed to put todo %s: %w", todo.TodoID, err)
	}

	return nil
}

func (r *repositoryImpl) UpdateFields(ctx context.Context, todoID, ownerID string, fields map[string]any) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.UpdateFields")
	defer scope.End()

	if len(fields) == 0 {
		log.Debug().Str("todo_id", todoID).Msg("nothing to update")

		return nil
	}

	if err := r.base.Update(ctx, fields, byKey(todoID, ownerID)); err != nil {
		return fmt.Errorf("failed to update todo %s: %w", todoID, err)
	}

	return nil
}

func (r *repositoryImpl) SetHasImage(ctx context.Context, todoID, ownerID string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.SetHasImage")
	defer scope.End()

	if err := r.base.Update(ctx, map[string]any{model.FieldHasImage: true}, byKey(todoID, ownerID)); err != nil {
		return fmt.Errorf("failed to flag image on todo %s: %w", todoID, err)
	}

	return nil
}

func (r *repositoryImpl) Delete(ctx context.Context, todoID, ownerID string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".todo.Delete")
	defer scope.End()

	if err := r.base.Delete(ctx, byKey(todoID, ownerID)); err != nil {
		return fmt.Errorf("failed to delete todo %s: %w", todoID, err)
	}

	return nil
}
