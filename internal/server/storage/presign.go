// Package storage issues presigned S3 URLs for letter images.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/loveletters/internal/server/config"
	"github.com/google/uuid"
)

// PresignExpiry is how long an upload URL stays valid.
const PresignExpiry = 15 * time.Minute

// Upload is a storage key and the presigned PUT URL for it.
type Upload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Presigner struct {
	bucket string
	client *s3.PresignClient
	now    func() time.Time
}

func NewPresigner(ctx context.Context, c *config.Config) (*Presigner, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &Presigner{
		bucket: c.S3Bucket,
		client: s3.NewPresignClient(client),
		now:    time.Now,
	}, nil
}

// NewKey returns letters/YYYY/MM/DD/<uuid><ext>, keeping a short, safe
// extension from filename when present.
func NewKey(now time.Time, filename string) string {
	var ext string
	if filename != "" {
		ext = strings.ToLower(path.Ext(path.Base(filename)))
	}
	if len(ext) < 2 || len(ext) > 8 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return fmt.Sprintf("letters/%04d/%02d/%02d/%v%s", now.Year(), int(now.Month()), now.Day(), uuid.New(), ext)
}

// PresignPut signs a PUT for a fresh key.
func (p *Presigner) PresignPut(ctx context.Context, filename string) (*Upload, error) {
	key := NewKey(p.now(), filename)

	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &Upload{Key: key, URL: req.URL}, nil
}
