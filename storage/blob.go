package storage

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound is returned when no blob with the given name or id exists.
var ErrBlobNotFound = errors.New("blob not found")

// Metadata is tagged onto every stored blob.
type Metadata struct {
	MimeType string `bson:"mimeType"`
	User     string `bson:"user"`
}

// UploadResult is the durable identity of a stored blob. ID addresses the
// blob for deletion, Name for reads.
type UploadResult struct {
	ID   string
	Name string
}

// BlobStore streams image bytes in and out of a content store. Put must not
// leave a readable partial blob behind on error, and a successful Put must
// return an identity that is immediately readable and deletable.
type BlobStore interface {
	Put(ctx context.Context, name string, body io.Reader, meta Metadata) (UploadResult, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, id string) error
}
