package attachment_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"todos/config"
	otelMocks "todos/infras/otel/mocks"
	s3Mocks "todos/infras/s3/mocks"
	"todos/internal/domains/todo/attachment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	bucket    = "todos-bucket"
	directory = "images"
)

func newAttachment(t *testing.T) (attachment.Attachment, *s3Mocks.MockS3) {
	t.Helper()

	ctrl := gomock.NewController(t)
	storage := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.External.S3.BucketName = bucket
	cfg.External.S3.Directory = directory
	cfg.External.S3.URLExpireSeconds = 300

	return attachment.New(cfg, storage, otelMocks.NewOtel()), storage
}

func TestAttachment_UploadURL(t *testing.T) {
	tests := []struct {
		name    string
		mock    func(storage *s3Mocks.MockS3)
		want    string
		wantErr bool
	}{
		{
			name: "presigns a png put",
			mock: func(storage *s3Mocks.MockS3) {
				storage.EXPECT().
					PresignPut(gomock.Any(), bucket, directory, "abc123.png", "image/png", 300*time.Second).
					Return("https://s3/images/abc123.png?sig", nil)
			},
			want: "https://s3/images/abc123.png?sig",
		},
		{
			name: "signing failure",
			mock: func(storage *s3Mocks.MockS3) {
				storage.EXPECT().
					PresignPut(gomock.Any(), bucket, directory, "abc123.png", "image/png", 300*time.Second).
					Return("", errors.New("no credentials"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att, storage := newAttachment(t)
			tt.mock(storage)

			url, err := att.UploadURL(context.Background(), "abc123")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, url)
		})
	}
}

func TestAttachment_DownloadURL(t *testing.T) {
	tests := []struct {
		name      string
		mock      func(storage *s3Mocks.MockS3)
		wantURL   string
		wantFound bool
		wantErr   bool
	}{
		{
			name: "object present",
			mock: func(storage *s3Mocks.MockS3) {
				storage.EXPECT().Exists(gomock.Any(), bucket, directory, "abc123.png").Return(true, nil)
				storage.EXPECT().
					PresignGet(gomock.Any(), bucket, directory, "abc123.png", 300*time.Second).
					Return("https://s3/images/abc123.png?get", nil)
			},
			wantURL:   "https://s3/images/abc123.png?get",
			wantFound: true,
		},
		{
			name: "object absent",
			mock: func(storage *s3Mocks.MockS3) {
				storage.EXPECT().Exists(gomock.Any(), bucket, directory, "abc123.png").Return(false, nil)
			},
		},
		{
			name: "probe failure",
			mock: func(storage *s3Mocks.MockS3) {
				storage.EXPECT().Exists(gomock.Any(), bucket, directory, "abc123.png").Return(false, errors.New("forbidden"))
			},
			wantErr: true,
		},
		{
			name: "signing failure",
			mock: func(storage *s3Mocks.MockS3) {
				storage.EXPECT().Exists(gomock.Any(), bucket, directory, "abc123.png").Return(true, nil)
				storage.EXPECT().
					PresignGet(gomock.Any(), bucket, directory, "abc123.png", 300*time.Second).
					Return("", errors.New("no credentials"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att, storage := newAttachment(t)
			tt.mock(storage)

			url, found, err := att.DownloadURL(context.Background(), "abc123")

			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, found)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantURL, url)
		})
	}
}

func TestAttachment_Delete(t *testing.T) {
	att, storage := newAttachment(t)

	storage.EXPECT().DeleteFile(gomock.Any(), bucket, directory, "abc123.png").Return(errors.New("timeout"))

	assert.ErrorContains(t, att.Delete(context.Background(), "abc123"), "timeout")
}
