package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/verlynk/verlynk-backend/errs"
	"github.com/verlynk/verlynk-backend/storage"
)

type imageHandler struct {
	responder Responder
	logger    zerolog.Logger
	blobs     storage.BlobStore
}

func newImageHandler(blobs storage.BlobStore) imageHandler {
	logger := log.With().Str("handlerName", "imageHandler").Logger()

	return imageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		blobs:     blobs,
	}
}

// getPostImage streams blob bytes by stored name. The content type is
// inferred from the extension the filename generator preserved.
func (h imageHandler) getPostImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		if filename == "" {
			h.responder.WriteError(w, errs.NewNotFoundError("Image not found"))
			return
		}

		stream, err := h.blobs.Open(r.Context(), filename)
		if err != nil {
			if errors.Is(err, storage.ErrBlobNotFound) {
				h.responder.WriteError(w, errs.NewNotFoundError("Image not found"))
				return
			}
			h.responder.WriteError(w, errs.NewBlobError("download", err))
			return
		}
		defer stream.Close()

		if contentType := mime.TypeByExtension(filepath.Ext(filename)); contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}

		if _, err := io.Copy(w, stream); err != nil {
			// Headers are gone by now; all that is left is logging.
			h.logger.Error().Err(err).Str("filename", filename).Msg("image stream interrupted")
		}
	}
}
