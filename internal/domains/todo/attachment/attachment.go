package attachment

//go:generate go run go.uber.org/mock/mockgen -source=./attachment.go -destination=../mocks/attachment_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"
	"todos/config"
	"todos/infras/otel"
	"todos/infras/s3"
	"todos/internal/domains/todo/model"
	"todos/shared/constant"
)

// Attachment issues time-limited links to a todo's image object.
type Attachment interface {
	UploadURL(ctx context.Context, todoID string) (url string, err error)
	// DownloadURL reports found=false with a nil error when no image was uploaded.
	DownloadURL(ctx context.Context, todoID string) (url string, found bool, err error)
	Delete(ctx context.Context, todoID string) error
}

type attachmentImpl struct {
	storage   s3.S3
	otel      otel.Otel
	bucket    string
	directory string
	expires   time.Duration
}

func New(cfg *config.Config, storage s3.S3, otel otel.Otel) Attachment {
	return &attachmentImpl{
		storage:   storage,
		otel:      otel,
		bucket:    cfg.External.S3.BucketName,
		directory: cfg.External.S3.Directory,
		expires:   time.Duration(cfg.External.S3.URLExpireSeconds) * time.Second,
	}
}

func (a *attachmentImpl) UploadURL(ctx context.Context, todoID string) (url string, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".attachment.UploadURL")
	defer scope.End()
	defer scope.TraceIfError(&err)

	url, err = a.storage.PresignPut(ctx, a.bucket, a.directory, objectName(todoID), constant.AttachmentMimeType, a.expires)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to issue upload url for todo %s: %w", todoID, err)
	}

	return url, nil
}

func (a *attachmentImpl) DownloadURL(ctx context.Context, todoID string) (url string, found bool, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".attachment.DownloadURL")
	defer scope.End()
	defer scope.TraceIfError(&err)

	found, err = a.storage.Exists(ctx, a.bucket, a.directory, objectName(todoID))
	if err != nil {
		return constant.Empty, false, fmt.Errorf("failed to probe attachment of todo %s: %w", todoID, err)
	}

	if !found {
		return constant.Empty, false, nil
	}

	url, err = a.storage.PresignGet(ctx, a.bucket, a.directory, objectName(todoID), a.expires)
	if err != nil {
		return constant.Empty, false, fmt.Errorf("failed to issue download url for todo %s: %w", todoID, err)
	}

	return url, true, nil
}

func (a *attachmentImpl) Delete(ctx context.Context, todoID string) (err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".attachment.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = a.storage.DeleteFile(ctx, a.bucket, a.directory, objectName(todoID)); err != nil {
		return fmt.Errorf("failed to delete attachment of todo %s: %w", todoID, err)
	}

	return nil
}

func objectName(todoID string) string {
	return model.AttachmentName(todoID, constant.AttachmentExtension)
}
