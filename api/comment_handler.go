package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/verlynk/verlynk-backend/errs"
	"github.com/verlynk/verlynk-backend/services"
)

type commentHandler struct {
	responder Responder
	logger    zerolog.Logger
	comments  services.CommentService
}

func newCommentHandler(comments services.CommentService) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		comments:  comments,
	}
}

type addCommentRequest struct {
	CommentText string `json:"commenttext"`
}

// addComment stores a comment on an existing post.
func (h commentHandler) addComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req addCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewValidationFieldError("Comment text is required", "commenttext"))
			return
		}

		postID := chi.URLParam(r, "postid")
		if _, err := h.comments.Add(r.Context(), identity.UserID, postID, req.CommentText); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusCreated, "")
	}
}

// listComments returns the post's comments with commenter projections.
func (h commentHandler) listComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := chi.URLParam(r, "postid")
		comments, err := h.comments.ListByPost(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"existingComments": comments,
		})
	}
}

// deleteComment removes the caller's own comment.
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postID := chi.URLParam(r, "postid")
		commentID := chi.URLParam(r, "commentid")
		if err := h.comments.Delete(r.Context(), identity.UserID, postID, commentID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusCreated, "")
	}
}
