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

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     services.UserService
}

func newUserHandler(users services.UserService) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
	}
}

type signUpRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signUp registers a new account.
func (h userHandler) signUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewValidationError("Missing fields"))
			return
		}

		if _, err := h.users.SignUp(r.Context(), req.Fullname, req.Email, req.Password); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusCreated, "Registration success")
	}
}

// me returns the caller's own projection.
func (h userHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.Get(r.Context(), identity.Email)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

type editUserRequest struct {
	Fullname string `json:"fullname"`
}

// edit changes the caller's display name.
func (h userHandler) edit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req editUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewValidationError("Missing fields"))
			return
		}

		if err := h.users.EditFullname(r.Context(), identity.UserID, req.Fullname); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusCreated, "")
	}
}

type editPasswordRequest struct {
	OldPassword string `json:"oldpassword"`
	NewPassword string `json:"newpassword"`
}

// editPassword verifies the old password and stores the new hash.
func (h userHandler) editPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req editPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewValidationError("Missing fields"))
			return
		}

		if err := h.users.ChangePassword(r.Context(), identity.UserID, req.OldPassword, req.NewPassword); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusCreated, "")
	}
}

// deleteUser removes the caller's own account and everything it owns.
func (h userHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromCtx(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		userID := chi.URLParam(r, "userid")
		if err := h.users.DeleteAccount(r.Context(), identity.UserID, userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusCreated, "")
	}
}
