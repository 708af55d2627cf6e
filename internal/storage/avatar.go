package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"moment-admin-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Presigner creates presigned GET requests
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error)
}

// PresignedRequest is the part of a presigned request the resolver needs
type PresignedRequest struct {
	URL string
}

// AvatarResolver turns avatar object keys stored on profiles into
// short-lived URLs. Values that are already absolute URLs are kept.
type AvatarResolver struct {
	presigner Presigner
	bucket    string
	ttl       time.Duration
}

// NewAvatarResolver creates a resolver backed by an S3-compatible bucket.
// It returns a pass-through resolver when no bucket is configured.
func NewAvatarResolver(ctx context.Context, cfg config.StorageConfig) (*AvatarResolver, error) {
	if cfg.Bucket == "" {
		return &AvatarResolver{}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewAvatarResolverWithPresigner(&s3Presigner{client: s3.NewPresignClient(client)}, cfg.Bucket, cfg.URLTTL), nil
}

// NewAvatarResolverWithPresigner creates a resolver around an existing presigner
func NewAvatarResolverWithPresigner(p Presigner, bucket string, ttl time.Duration) *AvatarResolver {
	return &AvatarResolver{presigner: p, bucket: bucket, ttl: ttl}
}

// Resolve returns a viewable URL for ref. Nil, empty and absolute refs
// are returned as is. A presign failure keeps the raw reference.
func (a *AvatarResolver) Resolve(ctx context.Context, ref *string) *string {
	if a == nil || a.presigner == nil || ref == nil || *ref == "" || isAbsolute(*ref) {
		return ref
	}

	key := strings.TrimPrefix(*ref, "/")
	key = strings.TrimPrefix(key, a.bucket+"/")

	req, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = a.ttl
	})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to presign avatar")
		return ref
	}

	return &req.URL
}

func isAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

type s3Presigner struct {
	client *s3.PresignClient
}

func (p *s3Presigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error) {
	req, err := p.client.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &PresignedRequest{URL: req.URL}, nil
}
