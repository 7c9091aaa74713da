package gstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const transferTimeout = 50 * time.Second

var ErrObjectNotExist = storage.ErrObjectNotExist

// Bucket is the subset of cloud storage used to back up the sqlite database.
type Bucket interface {
	UploadFile(ctx context.Context, filePath string) error
	RestoreFile(ctx context.Context, filePath string) error
}

type GStorage struct {
	storageClient *storage.Client
	bucket        string
	prefix        string
}

func NewGStorage(credentialsFilePath, bucket, prefix string) (*GStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFilePath != "" {
		client, err = storage.NewClient(context.Background(), option.WithCredentialsFile(credentialsFilePath))
	} else {
		client, err = storage.NewClient(context.Background())
	}

	if err != nil {
		return nil, fmt.Errorf("NewGStorage: %v", err)
	}

	return &GStorage{storageClient: client, bucket: bucket, prefix: prefix}, nil
}

// ObjectName is where a local file is kept in the bucket.
func (gs *GStorage) ObjectName(fileName string) string {
	return path.Join(gs.prefix, filepath.Base(fileName))
}

// UploadFile uploads the file at 'filePath' under the configured prefix.
func (gs *GStorage) UploadFile(ctx context.Context, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("os.Open: %v", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, transferTimeout)
	defer cancel()

	object := gs.ObjectName(filePath)
	wc := gs.storageClient.Bucket(gs.bucket).Object(object).NewWriter(ctx)
	if _, err = io.Copy(wc, f); err != nil {
		wc.Close()
		return fmt.Errorf("io.Copy: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %v", err)
	}

	return nil
}

// DownloadFile downloads 'object' to 'destFileName'. Returns ErrObjectNotExist when there is nothing to restore.
func (gs *GStorage) DownloadFile(ctx context.Context, object string, destFileName string) error {
	ctx, cancel := context.WithTimeout(ctx, transferTimeout)
	defer cancel()

	rc, err := gs.storageClient.Bucket(gs.bucket).Object(object).NewReader(ctx)
	if err == storage.ErrObjectNotExist {
		return err
	}
	if err != nil {
		return fmt.Errorf("Object(%q).NewReader: %v", object, err)
	}
	defer rc.Close()

	f, err := os.OpenFile(destFileName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("os.OpenFile: %v", err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return fmt.Errorf("io.Copy: %v", err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("f.Close: %v", err)
	}

	return nil
}

// RestoreFile replaces the file at 'filePath' with its uploaded copy.
func (gs *GStorage) RestoreFile(ctx context.Context, filePath string) error {
	return gs.DownloadFile(ctx, gs.ObjectName(filePath), filePath)
}
