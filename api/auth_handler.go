package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/verlynk/verlynk-backend/auth"
	"github.com/verlynk/verlynk-backend/errs"
	"github.com/verlynk/verlynk-backend/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     services.UserService
	tokens    auth.TokenMaker
}

func newAuthHandler(users services.UserService, tokens auth.TokenMaker) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
		tokens:    tokens,
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signIn verifies credentials and sets the session cookie.
func (h authHandler) signIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewValidationError("Missing Fields!"))
			return
		}

		user, err := h.users.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.tokens.Issue(user.ID.Hex(), user.Email)
		if err != nil {
			h.logger.Error().Err(err).Msg("token signing failed")
			h.responder.WriteError(w, errs.NewInternalError("Login failed, try again after sometime"))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(h.tokens.Expiry()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		h.responder.WriteSuccess(w, http.StatusOK, "")
	}
}

// signOut clears the session cookie.
func (h authHandler) signOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		h.responder.WriteSuccess(w, http.StatusOK, "Logged out")
	}
}
