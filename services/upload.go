package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verlynk/verlynk-backend/errs"
	"github.com/verlynk/verlynk-backend/models"
	"github.com/verlynk/verlynk-backend/storage"
)

// randomNameBytes sizes the random component of storage names. 24 bytes of
// entropy keeps the birthday bound far beyond any realistic upload volume.
const randomNameBytes = 24

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

var allowedImageMimes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Upload is a buffered file as handed over by the HTTP boundary.
type Upload struct {
	Data         []byte
	OriginalName string
	MimeType     string
}

// ValidateUpload rejects a candidate file unless both its extension and its
// declared content type are on the image allow-list. Runs before any bytes
// are streamed, so disallowed types never reach the store.
func ValidateUpload(file Upload) error {
	ext := strings.ToLower(filepath.Ext(file.OriginalName))
	mime := strings.ToLower(strings.TrimSpace(file.MimeType))

	if !allowedImageExts[ext] || !allowedImageMimes[mime] {
		return errs.NewValidationFieldError("Only jpeg,jpg,png image", "postimage")
	}
	return nil
}

// RandomFilename builds a collision-resistant, unguessable storage name from
// a cryptographically strong random source, keeping the original extension
// for later content-type inference. A failing randomness source fails the
// upload; there is no weaker fallback.
func RandomFilename(originalName string) (string, error) {
	buf := make([]byte, randomNameBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cannot generate storage name: %w", err)
	}
	return hex.EncodeToString(buf) + strings.ToLower(filepath.Ext(originalName)), nil
}

// Ingestor runs the image ingestion pipeline: validate, name, stream to the
// blob store, await the completion acknowledgment.
type Ingestor struct {
	blobs  storage.BlobStore
	logger zerolog.Logger
}

func NewIngestor(blobs storage.BlobStore) Ingestor {
	return Ingestor{
		blobs:  blobs,
		logger: log.With().Str("serviceName", "ingestor").Logger(),
	}
}

// Ingest is a single attempt with no internal retry; callers retry the whole
// operation if they want retries. On success the returned identity is
// immediately readable and deletable. On failure nothing addressable remains
// in the store and no document has been touched.
func (i Ingestor) Ingest(ctx context.Context, file Upload, owner primitive.ObjectID) (models.PostImage, error) {
	if err := ValidateUpload(file); err != nil {
		return models.PostImage{}, err
	}

	name, err := RandomFilename(file.OriginalName)
	if err != nil {
		return models.PostImage{}, errs.NewInternalError("Invalid image file")
	}

	meta := storage.Metadata{
		MimeType: file.MimeType,
		User:     owner.Hex(),
	}

	result, err := i.blobs.Put(ctx, name, bytes.NewReader(file.Data), meta)
	if err != nil {
		i.logger.Error().Err(err).Str("filename", name).Msg("blob upload failed")
		return models.PostImage{}, errs.NewBlobError("upload", err)
	}

	return models.PostImage{ID: result.ID, Filename: result.Name}, nil
}

// DiscardBlob best-effort-deletes a blob that lost its owning document, so a
// failed insert or replace does not strand bytes in the store.
func (i Ingestor) DiscardBlob(ctx context.Context, image models.PostImage) {
	if image.ID == "" {
		return
	}
	if err := i.blobs.Delete(ctx, image.ID); err != nil {
		i.logger.Error().Err(err).Str("blobId", image.ID).Msg("orphaned blob cleanup failed")
	}
}
