package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"
	"todos/config"
	"todos/infras/otel"
	"todos/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyHTTP "github.com/aws/smithy-go/transport/http"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrFileName = "file_name"
	otelAttrBucket   = "bucket"

	errorCodeNotFound = "NotFound"
)

type S3 interface {
	PresignPut(ctx context.Context, bucketName, directory, objectName, contentType string, expires time.Duration) (url string, err error)
	PresignGet(ctx context.Context, bucketName, directory, objectName string, expires time.Duration) (url string, err error)
	Exists(ctx context.Context, bucketName, directory, objectName string) (exists bool, err error)
	DeleteFile(ctx context.Context, bucketName, directory, objectName string) error
}

type s3Impl struct {
	Client  *s3.Client
	Presign *s3.PresignClient
	Config  *config.Config
	otel    otel.Otel
}

func (svc *s3Impl) PresignPut(ctx context.Context, bucketName, directory, objectName, contentType string, expires time.Duration) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".PresignPut")
	defer scope.End()
	defer scope.TraceIfError(&err)

	bucketName = svc.bucket(bucketName)

	scope.SetAttributes(map[string]any{
		otelAttrFileName: objectName,
		otelAttrBucket:   bucketName,
	})

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(ObjectKey(directory, objectName)),
	}

	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := svc.Presign.PresignPutObject(ctx, input, s3.WithPresignExpires(expires))
	if err != nil {
		log.Error().Err(err).Str("object", objectName).Msg("failed to presign upload url")

		return constant.Empty, fmt.Errorf("failed to presign upload url: %w", err)
	}

	return out.URL, nil
}

func (svc *s3Impl) PresignGet(ctx context.Context, bucketName, directory, objectName string, expires time.Duration) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".PresignGet")
	defer scope.End()
	defer scope.TraceIfError(&err)

	bucketName = svc.bucket(bucketName)

	scope.SetAttributes(map[string]any{
		otelAttrFileName: objectName,
		otelAttrBucket:   bucketName,
	})

	out, err := svc.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(ObjectKey(directory, objectName)),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		log.Error().Err(err).Str("object", objectName).Msg("failed to presign download url")

		return constant.Empty, fmt.Errorf("failed to presign download url: %w", err)
	}

	return out.URL, nil
}

func (svc *s3Impl) Exists(ctx context.Context, bucketName, directory, objectName string) (exists bool, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Exists")
	defer scope.End()
	defer scope.TraceIfError(&err)

	bucketName = svc.bucket(bucketName)

	scope.SetAttributes(map[string]any{
		otelAttrFileName: objectName,
		otelAttrBucket:   bucketName,
	})

	_, err = svc.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(ObjectKey(directory, objectName)),
	})
	if err == nil {
		return true, nil
	}

	if IsNotFound(err) {
		return false, nil
	}

	log.Error().Err(err).Str("object", objectName).Msg("failed to probe object in S3")

	return false, fmt.Errorf("failed to probe object in S3: %w", err)
}

func (svc *s3Impl) DeleteFile(ctx context.Context, bucketName, directory, objectName string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteFile")
	defer scope.End()
	defer scope.TraceIfError(&err)

	bucketName = svc.bucket(bucketName)

	scope.SetAttributes(map[string]any{
		otelAttrFileName: objectName,
		otelAttrBucket:   bucketName,
	})

	_, err = svc.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(ObjectKey(directory, objectName)),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func (svc *s3Impl) bucket(bucketName string) string {
	if bucketName == "" {
		return svc.Config.External.S3.BucketName
	}

	return bucketName
}

// ObjectKey joins the optional directory prefix and the object name.
func ObjectKey(directory, objectName string) string {
	return path.Join(directory, objectName)
}

// IsNotFound reports whether err is a missing object or key.
func IsNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == errorCodeNotFound {
		return true
	}

	var respErr *smithyHTTP.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}

	return false
}

func New(config *config.Config, otel otel.Otel) S3 {
	endpoint := config.External.S3.APIEndpoint
	region := config.External.S3.Region

	staticProvider := credentials.NewStaticCredentialsProvider(
		config.External.S3.AccessKeyID,
		config.External.S3.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
		awsConfig.WithRegion(region),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}

		o.UsePathStyle = true
		o.Region = region
	})

	log.Info().Str("bucket", config.External.S3.BucketName).Str("region", region).Msg("S3 client initialized")

	return &s3Impl{
		Client:  s3Client,
		Presign: s3.NewPresignClient(s3Client),
		Config:  config,
		otel:    otel,
	}
}
