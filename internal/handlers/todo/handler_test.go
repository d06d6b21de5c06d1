package todo_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	otelMocks "todos/infras/otel/mocks"
	"todos/internal/domains/todo/mocks"
	"todos/internal/domains/todo/model/dto"
	"todos/internal/handlers/todo"
	"todos/shared/constant"
	"todos/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const caller = "auth0|alice"

func newRouter(t *testing.T) (http.Handler, *mocks.MockTodoService) {
	t.Helper()

	svc := mocks.NewMockTodoService(gomock.NewController(t))
	handler := todo.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), constant.ContextKeyUserID, caller)))
		})
	})
	handler.Router(router)

	return router, svc
}

func sample() dto.TodoResponse {
	return dto.TodoResponse{
		UserID:    caller,
		TodoID:    "t1",
		CreatedAt: "2024-01-01T10:00:00Z",
		Name:      "Buy milk",
		DueDate:   "2024-01-02",
	}
}

func TestHandler(t *testing.T) {
	done := true

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		setupMock func(svc *mocks.MockTodoService)
		wantCode  int
		wantBody  string
	}{
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/todos",
			body:   `{"name":"Buy milk","dueDate":"2024-01-02"}`,
			setupMock: func(svc *mocks.MockTodoService) {
				svc.EXPECT().Create(gomock.Any(), caller, dto.CreateTodoRequest{Name: "Buy milk", DueDate: "2024-01-02"}).Return(sample(), nil)
			},
			wantCode: http.StatusCreated,
			wantBody: `{"item":{"userId":"auth0|alice","todoId":"t1","createdAt":"2024-01-01T10:00:00Z","name":"Buy milk","dueDate":"2024-01-02","done":false,"hasImage":false}}`,
		},
		{
			name:      "create without a name",
			method:    http.MethodPost,
			path:      "/todos",
			body:      `{"dueDate":"2024-01-02"}`,
			setupMock: func(*mocks.MockTodoService) {},
			wantCode:  http.StatusBadRequest,
			wantBody:  `{"message":"name is required"}`,
		},
		{
			name:      "create with a malformed due date",
			method:    http.MethodPost,
			path:      "/todos",
			body:      `{"name":"Buy milk","dueDate":"tomorrow"}`,
			setupMock: func(*mocks.MockTodoService) {},
			wantCode:  http.StatusBadRequest,
			wantBody:  `{"message":"dueDate must be a date formatted as YYYY-MM-DD"}`,
		},
		{
			name:   "create while the store is down",
			method: http.MethodPost,
			path:   "/todos",
			body:   `{"name":"Buy milk","dueDate":"2024-01-02"}`,
			setupMock: func(svc *mocks.MockTodoService) {
				svc.EXPECT().Create(gomock.Any(), caller, gomock.Any()).Return(dto.TodoResponse{}, errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Internal server error"}`,
		},
		{
			name:   "list",
			method: http.MethodGet,
			path:   "/todos",
			setupMock: func(svc *mocks.MockTodoService) {
				svc.EXPECT().List(gomock.Any(), caller).Return(dto.GetTodosResponse{Items: []dto.TodoResponse{}}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"items":[]}`,
		},
		{
			name:   "get",
			method: http.MethodGet,
			path:   "/todos/t1",
			setupMock: func(svc *mocks.MockTodoService) {
				res := sample()
				res.HasImage = true
				res.AttachmentURL = "https://s3/t1.png"
				svc.EXPECT().Get(gomock.Any(), caller, "t1").Return(res, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"item":{"userId":"auth0|alice","todoId":"t1","createdAt":"2024-01-01T10:00:00Z","name":"Buy milk","dueDate":"2024-01-02","done":false,"hasImage":true,"attachmentUrl":"https://s3/t1.png"}}`,
		},
		{
			name:   "update",
			method: http.MethodPatch,
			path:   "/todos/t1",
			body:   `{"name":"Buy milk","dueDate":"2024-02-01","done":true}`,
			setupMock: func(svc *mocks.MockTodoService) {
				svc.EXPECT().Update(gomock.Any(), caller, "t1", dto.UpdateTodoRequest{Name: "Buy milk", DueDate: "2024-02-01", Done: &done}).Return(nil)
			},
			wantCode: http.StatusNoContent,
		},
		{
			name:      "update without done",
			method:    http.MethodPatch,
			path:      "/todos/t1",
			body:      `{"name":"Buy milk","dueDate":"2024-02-01"}`,
			setupMock: func(*mocks.MockTodoService) {},
			wantCode:  http.StatusBadRequest,
			wantBody:  `{"message":"done is required"}`,
		},
		{
			name:   "update someone else's todo",
			method: http.MethodPatch,
			path:   "/todos/t1",
			body:   `{"name":"Buy milk","dueDate":"2024-02-01","done":false}`,
			setupMock: func(svc *mocks.MockTodoService) {
				svc.EXPECT().Update(gomock.Any(), caller, "t1", gomock.Any()).Return(failure.NotOwnerError)
			},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"message":"User does not have permission to access this todo"}`,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/todos/t1",
			setupMock: func(svc *mocks.MockTodoService) {
				svc.EXPECT().Delete(gomock.Any(), caller, "t1").Return(nil)
			},
			wantCode: http.StatusNoContent,
		},
		{
			name:   "delete a missing todo",
			method: http.MethodDelete,
			path:   "/todos/missing",
			setupMock: func(svc *mocks.MockTodoService) {
				svc.EXPECT().Delete(gomock.Any(), caller, "missing").Return(failure.TodoNotFoundError)
			},
			wantCode: http.StatusNotFound,
			wantBody: `{"message":"Todo item does not exist"}`,
		},
		{
			name:   "issue upload link",
			method: http.MethodPost,
			path:   "/todos/t1/attachment",
			setupMock: func(svc *mocks.MockTodoService) {
				svc.EXPECT().IssueUploadLink(gomock.Any(), caller, "t1").Return(dto.UploadURLResponse{URL: "https://s3/t1.png?put"}, nil)
			},
			wantCode: http.StatusCreated,
			wantBody: `{"url":"https://s3/t1.png?put"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tt.setupMock(svc)

			request := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			request.Header.Set("Content-Type", "application/json")

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantBody == "" {
				assert.Empty(t, recorder.Body.String())

				return
			}

			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
		})
	}
}
