package errs

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestConstructorsCarryStatusAndKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		err        *ApiErr
		wantStatus int
		wantKind   func(error) bool
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        NewValidationError("Missing Fields"),
			wantStatus: http.StatusNotAcceptable,
			wantKind:   IsValidation,
			wantMsg:    "Missing Fields",
		},
		{
			name:       "validation with field",
			err:        NewValidationFieldError("Only jpeg,jpg,png image", "postimage"),
			wantStatus: http.StatusNotAcceptable,
			wantKind:   IsValidation,
			wantMsg:    "Only jpeg,jpg,png image",
		},
		{
			name:       "not found",
			err:        NewNotFoundError("Resource not found"),
			wantStatus: http.StatusNotFound,
			wantKind:   IsNotFound,
			wantMsg:    "Resource not found",
		},
		{
			name:       "unauthorized",
			err:        NewUnauthorizedError("Invalid credentials!"),
			wantStatus: http.StatusUnauthorized,
			wantKind:   IsUnauthorized,
			wantMsg:    "Invalid credentials!",
		},
		{
			name:       "forbidden",
			err:        NewForbiddenError("You can not delete this post"),
			wantStatus: http.StatusUnauthorized,
			wantKind:   IsForbidden,
			wantMsg:    "You can not delete this post",
		},
		{
			name:       "conflict",
			err:        NewConflictError("Email already registered!"),
			wantStatus: http.StatusConflict,
			wantKind:   IsConflict,
			wantMsg:    "Email already registered!",
		},
		{
			name:       "internal",
			err:        NewInternalError("Internal Server Error"),
			wantStatus: http.StatusInternalServerError,
			wantKind:   func(err error) bool { return errors.Is(err, ErrInternal) },
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode, tt.wantStatus)
			}
			if !tt.wantKind(tt.err) {
				t.Errorf("kind check failed for %v", tt.err)
			}
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", tt.err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidationFieldErrorRecordsField(t *testing.T) {
	t.Parallel()
	err := NewValidationFieldError("Please upload a image", "postimage")
	if err.Field != "postimage" {
		t.Errorf("field = %q", err.Field)
	}
}

func TestStoreErrorTranslation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		cause      error
		wantStatus int
		wantKind   func(error) bool
	}{
		{
			name:       "duplicate key",
			cause:      errors.New(`write exception: write errors: [E11000 duplicate key error collection: verlynk-db.users]`),
			wantStatus: http.StatusConflict,
			wantKind:   IsConflict,
		},
		{
			name:       "no documents",
			cause:      errors.New("mongo: no documents in result"),
			wantStatus: http.StatusNotFound,
			wantKind:   IsNotFound,
		},
		{
			name:       "server selection",
			cause:      errors.New("server selection error: context deadline exceeded"),
			wantStatus: http.StatusServiceUnavailable,
			wantKind:   IsStorage,
		},
		{
			name:       "connection refused",
			cause:      errors.New("dial tcp 127.0.0.1:27017: connect: connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantKind:   IsStorage,
		},
		{
			name:       "anything else",
			cause:      errors.New("write concern timeout"),
			wantStatus: http.StatusBadRequest,
			wantKind:   IsStorage,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := NewStoreError("create", "user", tt.cause)
			if err.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", err.StatusCode, tt.wantStatus)
			}
			if !tt.wantKind(err) {
				t.Errorf("kind check failed for %v", err)
			}
			if err.Cause != tt.cause {
				t.Error("cause not preserved for logging")
			}
		})
	}
}

func TestStoreErrorNeverLeaksDriverDetail(t *testing.T) {
	t.Parallel()
	cause := errors.New("server selection error: topology closed, servers: [mongodb://internal-host:27017]")
	err := NewStoreError("find", "post", cause)

	if err.Error() == cause.Error() {
		t.Error("client message is the raw driver error")
	}
	if got := err.Error(); got != "store unavailable, try again after sometime" {
		t.Errorf("message = %q", got)
	}
}

func TestBlobErrorTranslation(t *testing.T) {
	t.Parallel()

	notFound := NewBlobError("download", errors.New("blob not found"))
	if notFound.StatusCode != http.StatusNotFound || notFound.Error() != "Image not found" {
		t.Errorf("got %d %q", notFound.StatusCode, notFound.Error())
	}

	failed := NewBlobError("upload", errors.New("stream closed mid-write"))
	if failed.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", failed.StatusCode)
	}
	if failed.Error() != "Upload incomplete, try again with different image" {
		t.Errorf("message = %q", failed.Error())
	}
}

func TestGetFullErrorIncludesCauseChain(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	err := NewStoreError("create", "post", cause)

	full := err.GetFullError()
	if full == err.Error() {
		t.Error("full error should carry more detail than the client message")
	}
	for _, fragment := range []string{"Failed to create post", "connection refused"} {
		if !strings.Contains(full, fragment) {
			t.Errorf("full error %q missing %q", full, fragment)
		}
	}
}

func TestAuthErrorsAreUnauthorized(t *testing.T) {
	t.Parallel()
	for _, err := range []*ApiErr{NewMissingTokenError(), NewExpiredTokenError(), NewInvalidTokenError()} {
		if err.StatusCode != http.StatusUnauthorized {
			t.Errorf("%v: status = %d", err, err.StatusCode)
		}
		if err.Field != "authorization" {
			t.Errorf("%v: field = %q", err, err.Field)
		}
	}
	if !IsMissingToken(NewMissingTokenError()) {
		t.Error("missing-token kind lost")
	}
}
