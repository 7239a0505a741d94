package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/verlynk/verlynk-backend/errs"
	"github.com/verlynk/verlynk-backend/services"
)

// maxUploadBytes bounds how much of a multipart body is buffered in memory.
const maxUploadBytes = 10 << 20

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	posts     services.PostService
}

func newPostHandler(posts services.PostService) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		posts:     posts,
	}
}

// postFormFromRequest collects the text fields of a multipart post request.
func postFormFromRequest(r *http.Request) services.PostForm {
	return services.PostForm{
		Title:           r.FormValue("title"),
		Intro:           r.FormValue("intro"),
		QuickIntroTitle: r.FormValue("quickintrotitle"),
		QuickIntroList:  r.FormValue("quickintrolist"),
		ResultTitle:     r.FormValue("resulttitle"),
		ResultList:      r.FormValue("resultlist"),
		Conclusion:      r.FormValue("conclusion"),
	}
}

// uploadFromRequest buffers the uploaded file, if any. A missing file is not
// an error here; the service decides whether one is required.
func (h postHandler) uploadFromRequest(r *http.Request) (*services.Upload, error) {
	file, header, err := r.FormFile("postimage")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewValidationFieldError("Invalid image file", "postimage")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, errs.NewValidationFieldError("Invalid image file", "postimage")
	}
	if len(data) > maxUploadBytes {
		return nil, errs.NewValidationFieldError("Image file too large", "postimage")
	}

	return &services.Upload{
		Data:         data,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
	}, nil
}

// createPost ingests the image and inserts the post document.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			h.responder.WriteError(w, errs.NewValidationError("Invalid image file"))
			return
		}

		file, err := h.uploadFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Create(r.Context(), identity.UserID, postFormFromRequest(r), file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, map[string]any{
			"success": true,
			"postid":  post.ID.Hex(),
		})
	}
}

// getPost returns the post joined with its author projection.
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.posts.Get(r.Context(), chi.URLParam(r, "postid"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// listPosts returns one newest-first page of posts with the total count.
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				h.responder.WriteError(w, errs.NewValidationFieldError("Invalid page", "page"))
				return
			}
			page = parsed
		}

		result, err := h.posts.List(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, result)
	}
}

// editPost replaces the text sections of the caller's own post.
func (h postHandler) editPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := r.ParseForm(); err != nil {
			h.responder.WriteError(w, errs.NewValidationError("Missing Fields"))
			return
		}

		postID := chi.URLParam(r, "postid")
		if err := h.posts.EditText(r.Context(), identity.UserID, postID, postFormFromRequest(r)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusCreated, "")
	}
}

// editPostImage replaces the image of the caller's own post.
func (h postHandler) editPostImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			h.responder.WriteError(w, errs.NewValidationError("Invalid image file"))
			return
		}

		file, err := h.uploadFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postID := chi.URLParam(r, "postid")
		image, err := h.posts.EditImage(r.Context(), identity.UserID, postID, file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, map[string]any{
			"success":   true,
			"postimage": image,
		})
	}
}

// deletePost removes the caller's own post with its blob and comments.
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postID := chi.URLParam(r, "postid")
		if err := h.posts.Delete(r.Context(), identity.UserID, postID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusCreated, "")
	}
}
