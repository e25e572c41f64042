// Package storage presigns object-storage URLs for account avatars on any
// S3-compatible backend.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Presigned is a time-limited URL for one object.
type Presigned struct {
	Key       string
	URL       string
	Method    string
	ExpiresAt time.Time
}

// Presigner hands out presigned object URLs.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (*Presigned, error)
	PresignGet(ctx context.Context, key string) (*Presigned, error)
}

type S3Config struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
	Expires      time.Duration
}

// S3Presigner presigns requests against a single bucket.
type S3Presigner struct {
	cfg S3Config
	pc  *s3.PresignClient
	now func() time.Time
}

func NewS3Presigner(ctx context.Context, cfg S3Config) (*S3Presigner, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.User, cfg.Password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	if cfg.Expires <= 0 {
		cfg.Expires = 15 * time.Minute
	}
	return &S3Presigner{cfg: cfg, pc: newS3PresignClient(client), now: time.Now}, nil
}

func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (*Presigned, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	expires := p.now().Add(p.cfg.Expires)
	req, err := presignPutObject(p.pc, ctx, in, s3.WithPresignExpires(p.cfg.Expires))
	if err != nil {
		return nil, fmt.Errorf("presign put %s: %w", key, err)
	}
	return &Presigned{Key: key, URL: req.URL, Method: req.Method, ExpiresAt: expires}, nil
}

func (p *S3Presigner) PresignGet(ctx context.Context, key string) (*Presigned, error) {
	expires := p.now().Add(p.cfg.Expires)
	req, err := presignGetObject(p.pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.cfg.Expires))
	if err != nil {
		return nil, fmt.Errorf("presign get %s: %w", key, err)
	}
	return &Presigned{Key: key, URL: req.URL, Method: req.Method, ExpiresAt: expires}, nil
}

// AvatarKey returns a fresh object key for an avatar of accountID.
func AvatarKey(accountID string, now time.Time) string {
	return fmt.Sprintf("avatars/%s/%d/%02d/%s", accountID, now.Year(), now.Month(), uuid.NewString())
}
