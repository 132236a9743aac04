// Package upload publishes output files to S3.
package upload

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// Uploader copies local files under a key prefix of one bucket.
type Uploader struct {
	bucket   string
	prefix   string
	uploader s3manageriface.UploaderAPI
}

// NewUploader creates an uploader using the default AWS credential chain.
func NewUploader(region, bucket, prefix string) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return newUploader(s3manager.NewUploader(sess), bucket, prefix), nil
}

func newUploader(api s3manageriface.UploaderAPI, bucket, prefix string) *Uploader {
	return &Uploader{
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		uploader: api,
	}
}

// ObjectKey is the key a local file is stored under.
func (u *Uploader) ObjectKey(filePath string) string {
	name := filepath.Base(filePath)
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// URI is the s3:// location of a key.
func (u *Uploader) URI(key string) string {
	return "s3://" + u.bucket + "/" + key
}

// UploadFiles uploads each file and returns the resulting URIs in order.
// It stops at the first failure.
func (u *Uploader) UploadFiles(paths []string) ([]string, error) {
	uris := make([]string, 0, len(paths))
	for _, p := range paths {
		uri, err := u.uploadFile(p)
		if err != nil {
			return uris, err
		}
		uris = append(uris, uri)
	}
	return uris, nil
}

func (u *Uploader) uploadFile(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	key := u.ObjectKey(filePath)
	_, err = u.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(filePath)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to %s: %w", filePath, u.URI(key), err)
	}
	return u.URI(key), nil
}

func contentType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}
