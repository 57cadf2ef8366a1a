package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	appconfig "facture-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores company logos in an S3-compatible bucket, one object per
// user. Upload progress is tracked in memory and queryable while an upload
// is in flight.
type Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string

	mu       sync.Mutex
	progress map[int]int // userID -> percent uploaded
}

const awsConfigTimeout = 30 * time.Second

func NewUploader(cfg *appconfig.Config) (*Uploader, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsConfigTimeout)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
	})

	return &Uploader{
		client:    client,
		bucket:    cfg.Storage.Bucket,
		publicURL: cfg.Storage.PublicURL,
		progress:  make(map[int]int),
	}, nil
}

// UploadLogo uploads a logo image for the user and returns its stable
// retrieval URL. The object key is derived from the user ID, so a new
// upload replaces the previous logo.
func (u *Uploader) UploadLogo(ctx context.Context, userID int, body io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("logos/%d", userID)

	u.setProgress(userID, 0)
	defer u.clearProgress(userID)

	reader := &progressReader{
		r:    body,
		size: size,
		onProgress: func(percent int) {
			u.setProgress(userID, percent)
		},
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}

	log.Printf("[Storage] Uploaded logo for user %d (%d bytes)", userID, size)
	return fmt.Sprintf("%s/%s", u.publicURL, key), nil
}

// Progress returns the percent uploaded for the user's in-flight upload,
// or -1 when no upload is in progress.
func (u *Uploader) Progress(userID int) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	if p, ok := u.progress[userID]; ok {
		return p
	}
	return -1
}

func (u *Uploader) setProgress(userID, percent int) {
	u.mu.Lock()
	u.progress[userID] = percent
	u.mu.Unlock()
}

func (u *Uploader) clearProgress(userID int) {
	u.mu.Lock()
	delete(u.progress, userID)
	u.mu.Unlock()
}

// progressReader reports cumulative read percentage as the SDK consumes
// the body
type progressReader struct {
	r          io.Reader
	size       int64
	read       int64
	onProgress func(percent int)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 && pr.size > 0 {
		pr.read += int64(n)
		pr.onProgress(int(pr.read * 100 / pr.size))
	}
	return n, err
}
