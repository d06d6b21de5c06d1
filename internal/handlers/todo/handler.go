package todo

import (
	"net/http"
	"todos/infras/otel"
	"todos/internal/domains/todo/model/dto"
	"todos/internal/domains/todo/service"
	"todos/shared/constant"
	"todos/shared/validator"
	"todos/transport/http/middleware"
	"todos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Todo
	otel    otel.Otel
}

func New(service service.Todo, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/todos", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTodo)
		routerGroup.Get("/", handler.GetTodos)
		routerGroup.Get("/{todoId}", handler.GetTodoByID)
		routerGroup.Patch("/{todoId}", handler.UpdateTodo)
		routerGroup.Delete("/{todoId}", handler.DeleteTodo)
		routerGroup.Post("/{todoId}/attachment", handler.IssueUploadLink)
	})
}

// CreateTodo handles the creation of a new todo item.
// @Summary Create a new todo item
// @Description Create a todo owned by the caller. It starts not done and without an image.
// @Tags Todo
// @Accept json
// @Produce json
// @Param request body dto.CreateTodoRequest true "Create Todo Request"
// @Success 201 {object} dto.GetTodoResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos [post]
// @Security BearerAuth
func (handler *Handler) CreateTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTodo")
	defer scope.End()

	req := dto.CreateTodoRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	user := middleware.UserID(ctx)

	todo, err := handler.service.Create(ctx, user, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create todo")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Todo created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, dto.GetTodoResponse{Item: todo})
}

// GetTodos lists the caller's todo items.
// @Summary List the caller's todo items
// @Description Returns the oldest page of the caller's todos. Items with an uploaded image carry a short-lived attachmentUrl.
// @Tags Todo
// @Produce json
// @Success 200 {object} dto.GetTodosResponse
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos [get]
// @Security BearerAuth
func (handler *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodos")
	defer scope.End()

	todos, err := handler.service.List(ctx, middleware.UserID(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todos")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todos retrieved successfully")

	response.WithJSON(w, http.StatusOK, todos)
}

// GetTodoByID retrieves a todo item by its ID.
// @Summary Get a todo item by ID
// @Tags Todo
// @Produce json
// @Param todoId path string true "Todo ID"
// @Success 200 {object} dto.GetTodoResponse
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{todoId} [get]
// @Security BearerAuth
func (handler *Handler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodoByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamTodoID)

	todo, err := handler.service.Get(ctx, middleware.UserID(ctx), id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("todo_id", id).Msg("failed to get todo by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todo retrieved successfully")

	response.WithJSON(w, http.StatusOK, dto.GetTodoResponse{Item: todo})
}

// UpdateTodo replaces the name, due date and done flag of a todo item.
// @Summary Update a todo item by ID
// @Tags Todo
// @Accept json
// @Param todoId path string true "Todo ID"
// @Param request body dto.UpdateTodoRequest true "Update Todo Request"
// @Success 204
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error "Missing credential or not the owner"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{todoId} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTodo")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamTodoID)

	req := dto.UpdateTodoRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	user := middleware.UserID(ctx)

	if err := handler.service.Update(ctx, user, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("todo_id", id).Msg("failed to update todo")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todo updated successfully by user " + user)

	response.WithNoContent(w)
}

// DeleteTodo deletes a todo item by its ID.
// @Summary Delete a todo item by ID
// @Tags Todo
// @Param todoId path string true "Todo ID"
// @Success 204
// @Failure 401 {object} response.Error "Missing credential or not the owner"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{todoId} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTodo")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamTodoID)
	user := middleware.UserID(ctx)

	if err := handler.service.Delete(ctx, user, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("todo_id", id).Msg("failed to delete todo")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todo deleted successfully by user " + user)

	response.WithNoContent(w)
}

// IssueUploadLink returns a presigned URL the client PUTs the todo's PNG image to.
// @Summary Issue an image upload link
// @Description The link overwrites any earlier image. hasImage flips once the upload is observed.
// @Tags Todo
// @Produce json
// @Param todoId path string true "Todo ID"
// @Success 201 {object} dto.UploadURLResponse
// @Failure 401 {object} response.Error "Missing credential or not the owner"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{todoId}/attachment [post]
// @Security BearerAuth
func (handler *Handler) IssueUploadLink(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".IssueUploadLink")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamTodoID)

	link, err := handler.service.IssueUploadLink(ctx, middleware.UserID(ctx), id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("todo_id", id).Msg("failed to issue upload link")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, link)
}
