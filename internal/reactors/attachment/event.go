package attachment

import (
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

const eventObjectCreated = "ObjectCreated"

// isObjectCreated matches both "ObjectCreated:Put" and MinIO's "s3:ObjectCreated:Put".
func isObjectCreated(record events.S3EventRecord) bool {
	return strings.Contains(record.EventName, eventObjectCreated)
}
