package archivemirror

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/siyazhu/PAIPAI/internal/mcstate"
)

// S3Mirror uploads each archived mcprocess/<NNNNNN>/ directory's four
// files to an S3 bucket/prefix, as an off-site durability copy alongside
// the mandatory filesystem archive.
type S3Mirror struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Mirror resolves the default AWS credential chain and returns a
// mirror targeting bucket/prefix.
func NewS3Mirror(ctx context.Context, bucket, prefix string) (*S3Mirror, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("archivemirror: load AWS config: %w", err)
	}
	return &S3Mirror{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: prefix}, nil
}

// MirrorArchive uploads rec.Dir's CONTCAR, SAVE, meta.json, and info.txt
// to s3://bucket/prefix/<NNNNNN>/.
func (m *S3Mirror) MirrorArchive(rec mcstate.ArchiveRecord) error {
	ctx := context.Background()
	for _, name := range []string{"CONTCAR", "SAVE", "meta.json", "info.txt"} {
		data, err := os.ReadFile(filepath.Join(rec.Dir, name))
		if err != nil {
			return fmt.Errorf("archivemirror: read %s: %w", name, err)
		}
		key := fmt.Sprintf("%s/%06d/%s", m.prefix, rec.Index, name)
		_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(m.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		})
		if err != nil {
			return fmt.Errorf("archivemirror: put %s: %w", key, err)
		}
	}
	return nil
}
