package service_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"todos/config"
	otelMocks "todos/infras/otel/mocks"
	"todos/internal/domains/todo/mocks"
	"todos/internal/domains/todo/model"
	"todos/internal/domains/todo/model/dto"
	"todos/internal/domains/todo/service"
	"todos/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	alice = "alice"
	bob   = "bob"
)

type fixture struct {
	repo       *mocks.MockTodo
	attachment *mocks.MockAttachment
	svc        service.Todo
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Todo.PageSize = 5
	cfg.Todo.LinkConcurrency = 2

	repo := mocks.NewMockTodo(ctrl)
	att := mocks.NewMockAttachment(ctrl)

	return fixture{
		repo:       repo,
		attachment: att,
		svc:        service.New(repo, att, cfg, otelMocks.NewOtel()),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func owned(todoID, owner string) model.Todo {
	return model.Todo{
		TodoID:    todoID,
		OwnerID:   owner,
		CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Name:      "Buy milk",
		DueDate:   "2024-01-02",
	}
}

func TestTodoService_Create(t *testing.T) {
	t.Run("stores a fresh record for the caller", func(t *testing.T) {
		f := newFixture(t)

		var stored model.Todo

		f.repo.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, todo model.Todo) error {
			stored = todo

			return nil
		})

		res, err := f.svc.Create(context.Background(), alice, dto.CreateTodoRequest{Name: "Buy milk", DueDate: "2024-01-02"})

		require.NoError(t, err)
		assert.NotEmpty(t, res.TodoID)
		assert.Equal(t, stored.TodoID, res.TodoID)
		assert.Equal(t, alice, stored.OwnerID)
		assert.Equal(t, alice, res.UserID)
		assert.False(t, res.Done)
		assert.False(t, res.HasImage)
		assert.Empty(t, res.AttachmentURL)
	})

	t.Run("store unavailable", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		_, err := f.svc.Create(context.Background(), alice, dto.CreateTodoRequest{Name: "Buy milk", DueDate: "2024-01-02"})

		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestTodoService_List(t *testing.T) {
	withImage := owned("t2", alice)
	withImage.HasImage = true

	missingImage := owned("t3", alice)
	missingImage.HasImage = true

	brokenLink := owned("t4", alice)
	brokenLink.HasImage = true

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantURLs  []string
		wantErr   bool
	}{
		{
			name: "resolves links only for records with images",
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByOwner(gomock.Any(), alice, 5).
					Return([]model.Todo{owned("t1", alice), withImage, missingImage, brokenLink}, nil)

				f.attachment.EXPECT().DownloadURL(gomock.Any(), "t2").Return("https://s3/t2.png", true, nil)
				f.attachment.EXPECT().DownloadURL(gomock.Any(), "t3").Return("", false, nil)
				f.attachment.EXPECT().DownloadURL(gomock.Any(), "t4").Return("", false, errors.New("forbidden"))
			},
			wantURLs: []string{"", "https://s3/t2.png", "", ""},
		},
		{
			name: "no records",
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByOwner(gomock.Any(), alice, 5).Return([]model.Todo{}, nil)
			},
			wantURLs: []string{},
		},
		{
			name: "store unavailable",
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByOwner(gomock.Any(), alice, 5).Return(nil, errors.New("timeout"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.List(context.Background(), alice)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, res.Items)

			urls := []string{}
			for _, item := range res.Items {
				urls = append(urls, item.AttachmentURL)
			}

			assert.Equal(t, tt.wantURLs, urls)
		})
	}
}

func TestTodoService_Get(t *testing.T) {
	withImage := owned("t1", alice)
	withImage.HasImage = true

	tests := []struct {
		name      string
		userID    string
		setupMock func(f fixture)
		wantURL   string
		wantErr   error
	}{
		{
			name:   "owner with image",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(withImage, nil)
				f.attachment.EXPECT().DownloadURL(gomock.Any(), "t1").Return("https://s3/t1.png", true, nil)
			},
			wantURL: "https://s3/t1.png",
		},
		{
			name:   "absent",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(model.Todo{}, nil)
			},
			wantErr: failure.TodoNotFoundError,
		},
		{
			name:   "not owner",
			userID: bob,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(withImage, nil)
			},
			wantErr: failure.NotOwnerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), tt.userID, "t1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, res.AttachmentURL)
		})
	}
}

func TestTodoService_Update(t *testing.T) {
	req := dto.UpdateTodoRequest{Name: "Buy oat milk", DueDate: "2024-01-03", Done: boolPtr(false)}

	tests := []struct {
		name      string
		userID    string
		setupMock func(f fixture)
		wantErr   error
		wantAny   bool
	}{
		{
			name:   "owner writes all three fields",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(owned("t1", alice), nil)
				f.repo.EXPECT().UpdateFields(gomock.Any(), "t1", alice, map[string]any{
					model.FieldName:    "Buy oat milk",
					model.FieldDueDate: "2024-01-03",
					model.FieldDone:    false,
				}).Return(nil)
			},
		},
		{
			name:   "absent is reported before ownership",
			userID: bob,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(model.Todo{}, nil)
			},
			wantErr: failure.TodoNotFoundError,
		},
		{
			name:   "not owner leaves the record untouched",
			userID: bob,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(owned("t1", alice), nil)
			},
			wantErr: failure.NotOwnerError,
		},
		{
			name:   "lookup failure",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(model.Todo{}, errors.New("timeout"))
			},
			wantAny: true,
		},
		{
			name:   "write failure",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(owned("t1", alice), nil)
				f.repo.EXPECT().UpdateFields(gomock.Any(), "t1", alice, gomock.Any()).Return(errors.New("timeout"))
			},
			wantAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(context.Background(), tt.userID, "t1", req)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAny:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestTodoService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		setupMock func(f fixture)
		wantErr   error
	}{
		{
			name:   "owner deletes record and image",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(owned("t1", alice), nil)
				f.repo.EXPECT().Delete(gomock.Any(), "t1", alice).Return(nil)
				f.attachment.EXPECT().Delete(gomock.Any(), "t1").Return(nil)
			},
		},
		{
			name:   "image cleanup failure is not reported",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(owned("t1", alice), nil)
				f.repo.EXPECT().Delete(gomock.Any(), "t1", alice).Return(nil)
				f.attachment.EXPECT().Delete(gomock.Any(), "t1").Return(errors.New("timeout"))
			},
		},
		{
			name:   "absent",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(model.Todo{}, nil)
			},
			wantErr: failure.TodoNotFoundError,
		},
		{
			name:   "not owner",
			userID: bob,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(owned("t1", alice), nil)
			},
			wantErr: failure.NotOwnerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(context.Background(), tt.userID, "t1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestTodoService_IssueUploadLink(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		setupMock func(f fixture)
		wantURL   string
		wantErr   error
		wantAny   bool
	}{
		{
			name:   "owner gets a link without mutating the record",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(owned("t1", alice), nil)
				f.attachment.EXPECT().UploadURL(gomock.Any(), "t1").Return("https://s3/t1.png?put", nil)
			},
			wantURL: "https://s3/t1.png?put",
		},
		{
			name:   "absent",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(model.Todo{}, nil)
			},
			wantErr: failure.TodoNotFoundError,
		},
		{
			name:   "not owner",
			userID: bob,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(owned("t1", alice), nil)
			},
			wantErr: failure.NotOwnerError,
		},
		{
			name:   "signing failure",
			userID: alice,
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetByID(gomock.Any(), "t1").Return(owned("t1", alice), nil)
				f.attachment.EXPECT().UploadURL(gomock.Any(), "t1").Return("", errors.New("no credentials"))
			},
			wantAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.IssueUploadLink(context.Background(), tt.userID, "t1")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAny:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantURL, res.URL)
			}
		})
	}
}
