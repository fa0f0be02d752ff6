// Package blob off-loads large attachment content to object storage so the
// relational store only carries metadata.
package blob

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/core"
)

// S3Store uploads attachment payloads to an S3 bucket. It implements
// core.AttachmentStore.
type S3Store struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewS3Store creates an S3-backed attachment store using the default AWS
// credential chain.
func NewS3Store(ctx context.Context, bucket, region string, logger *zap.Logger) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger,
	}, nil
}

// Store decodes the attachment's base64 content and uploads it under
// attachments/{messageID}/{filename}, returning the object key.
func (s *S3Store) Store(ctx context.Context, messageID string, attachment core.Attachment) (string, error) {
	content, err := base64.StdEncoding.DecodeString(attachment.Content)
	if err != nil {
		return "", fmt.Errorf("failed to decode attachment %q: %w", attachment.Filename, err)
	}

	key := path.Join("attachments", messageID, sanitizeFilename(attachment.Filename))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(attachment.MimeType),
		Metadata: map[string]string{
			"message-id": messageID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment %q: %w", attachment.Filename, err)
	}

	s.logger.Debug("attachment off-loaded",
		zap.String("message_id", messageID),
		zap.String("key", key),
		zap.Int("size", len(content)))
	return key, nil
}

// sanitizeFilename strips path separators so hostile filenames cannot escape
// the per-message prefix.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" || name == "." || name == ".." {
		return "attachment"
	}
	return name
}
