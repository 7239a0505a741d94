package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/verlynk/verlynk-backend/errs"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// SuccessResponse is the body of every mutation response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// failureResponse is the body of every error response. Internal detail never
// rides along.
type failureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

// WriteJSONStatus marshals before touching the status line, so the header is
// written exactly once whether marshaling succeeds or not.
func (r Responder) WriteJSONStatus(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteSuccess writes the success envelope with the given status code.
func (r Responder) WriteSuccess(w http.ResponseWriter, statusCode int, message string) {
	r.WriteJSONStatus(w, statusCode, SuccessResponse{Success: true, Message: message})
}

// WriteError renders an error as the {success:false, message} envelope.
// Unexpected (non-ApiErr) errors are logged in full but reported as a
// generic internal failure so driver internals never reach a client.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		r.WriteJSONStatus(w, http.StatusInternalServerError, failureResponse{Success: false, Message: "Internal Server Error"})
		return
	}

	if apiErr.Cause != nil {
		r.logger.Error().Str("cause", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request failed")
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, failureResponse{Success: false, Message: apiErr.Error()})
}
