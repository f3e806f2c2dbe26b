package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// ArchiveService copies message attachments to S3-compatible object storage
// (DigitalOcean Spaces) so removed posts keep an evidence trail.
type ArchiveService struct {
	client *s3.Client
	http   *resty.Client
	bucket string
	root   string
}

func NewArchiveService(key, secret, region, bucket, root string) (*ArchiveService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive storage config: %w", err)
	}

	return &ArchiveService{
		client: s3.NewFromConfig(cfg),
		http:   resty.New(),
		bucket: bucket,
		root:   root,
	}, nil
}

// ArchiveAttachments downloads and stores every attachment concurrently under
// <root>/<channel>/<message>/<filename>. The first failure is returned but
// other uploads still run to completion.
func (s *ArchiveService) ArchiveAttachments(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, attachments []discord.Attachment) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, att := range attachments {
		att := att
		g.Go(func() error {
			return s.archiveOne(ctx, channelID, messageID, att)
		})
	}
	return g.Wait()
}

func (s *ArchiveService) archiveOne(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, att discord.Attachment) error {
	resp, err := s.http.R().SetContext(ctx).Get(att.URL)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", att.Filename, err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed to download %s: status %d", att.Filename, resp.StatusCode())
	}

	key := fmt.Sprintf("%s/%s/%s/%s", s.root, channelID, messageID, att.Filename)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(resp.Body()),
	}
	if att.ContentType != nil {
		input.ContentType = att.ContentType
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}

	slog.Debug("Attachment archived",
		slog.String("type", "mod"),
		slog.String("key", key),
		slog.Int("size", att.Size))
	return nil
}
