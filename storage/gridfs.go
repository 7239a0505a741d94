package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStore stores blobs in a GridFS bucket. The bucket's own chunk
// bookkeeping guarantees that an aborted upload is never readable.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

var _ BlobStore = (*GridFSStore)(nil)

// NewGridFSStore opens the named bucket on the given files database.
func NewGridFSStore(db *mongo.Database, bucketName string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("cannot open gridfs bucket %q: %w", bucketName, err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

// The bucket's stream methods take no context; the request deadline is bound
// through the bucket's read/write deadlines instead.
func (s *GridFSStore) bindWriteDeadline(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		return s.bucket.SetWriteDeadline(deadline)
	}
	return nil
}

func (s *GridFSStore) bindReadDeadline(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		return s.bucket.SetReadDeadline(deadline)
	}
	return nil
}

func (s *GridFSStore) Put(ctx context.Context, name string, body io.Reader, meta Metadata) (UploadResult, error) {
	if err := s.bindWriteDeadline(ctx); err != nil {
		return UploadResult{}, fmt.Errorf("cannot bind deadline for %q: %w", name, err)
	}

	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"mimeType": meta.MimeType,
		"user":     meta.User,
	})

	stream, err := s.bucket.OpenUploadStream(name, uploadOpts)
	if err != nil {
		return UploadResult{}, fmt.Errorf("cannot open upload stream for %q: %w", name, err)
	}

	if _, err := io.Copy(stream, body); err != nil {
		stream.Abort()
		return UploadResult{}, fmt.Errorf("cannot stream blob %q: %w", name, err)
	}

	// Close flushes the final chunk and writes the files document; only
	// after it returns is the blob addressable.
	if err := stream.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("cannot finish blob %q: %w", name, err)
	}

	fileID, ok := stream.FileID.(primitive.ObjectID)
	if !ok {
		return UploadResult{}, fmt.Errorf("unexpected file id type %T for blob %q", stream.FileID, name)
	}

	return UploadResult{ID: fileID.Hex(), Name: name}, nil
}

func (s *GridFSStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := s.bindReadDeadline(ctx); err != nil {
		return nil, fmt.Errorf("cannot bind deadline for %q: %w", name, err)
	}

	stream, err := s.bucket.OpenDownloadStreamByName(name)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("cannot open blob %q: %w", name, err)
	}
	return stream, nil
}

func (s *GridFSStore) Delete(ctx context.Context, id string) error {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrBlobNotFound
	}

	if err := s.bucket.DeleteContext(ctx, fileID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("cannot delete blob %s: %w", id, err)
	}
	return nil
}
