package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"todos/internal/domains/todo/model"
)

// memoryRepository is an in-process record store for tests and DB_DRIVER=memory runs.
type memoryRepository struct {
	mu    sync.RWMutex
	todos map[string]model.Todo
}

func NewMemory() Todo {
	return &memoryRepository{
		todos: make(map[string]model.Todo),
	}
}

func (r *memoryRepository) GetByID(ctx context.Context, todoID string) (model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return model.Todo{}, err //nolint:wrapcheck
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.todos[todoID], nil
}

func (r *memoryRepository) GetByOwner(ctx context.Context, ownerID string, limit int) ([]model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := []model.Todo{}

	for _, todo := range r.todos {
		if todo.OwnerID == ownerID {
			todos = append(todos, todo)
		}
	}

	slices.SortFunc(todos, func(a, b model.Todo) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.TodoID, b.TodoID)
	})

	if limit > 0 && len(todos) > limit {
		todos = todos[:limit]
	}

	return todos, nil
}

func (r *memoryRepository) Put(ctx context.Context, todo model.Todo) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.todos[todo.TodoID] = todo

	return nil
}

func (r *memoryRepository) UpdateFields(ctx context.Context, todoID, ownerID string, fields map[string]any) error {
	return r.mutate(ctx, todoID, ownerID, func(todo *model.Todo) {
		if name, ok := fields[model.FieldName].(string); ok {
			todo.Name = name
		}

		if dueDate, ok := fields[model.FieldDueDate].(string); ok {
			todo.DueDate = dueDate
		}

		if done, ok := fields[model.FieldDone].(bool); ok {
			todo.Done = done
		}
	})
}

func (r *memoryRepository) SetHasImage(ctx context.Context, todoID, ownerID string) error {
	return r.mutate(ctx, todoID, ownerID, func(todo *model.Todo) {
		todo.HasImage = true
	})
}

func (r *memoryRepository) Delete(ctx context.Context, todoID, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if todo, ok := r.todos[todoID]; ok && todo.OwnerID == ownerID {
		delete(r.todos, todoID)
	}

	return nil
}

// mutate applies fn to the record matching the full key. A missing key is a no-op, as with an UPDATE.
func (r *memoryRepository) mutate(ctx context.Context, todoID, ownerID string, fn func(*model.Todo)) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	todo, ok := r.todos[todoID]
	if !ok || todo.OwnerID != ownerID {
		return nil
	}

	fn(&todo)
	r.todos[todoID] = todo

	return nil
}
