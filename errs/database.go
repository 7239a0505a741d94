package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// NewStoreError translates a raw document-store error into the API taxonomy.
// It matches on driver message fragments so this package stays free of driver
// imports; callers pass the untouched cause through for logging.
func NewStoreError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "duplicate key"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s already exists", entity),
				kind:       ErrConflict,
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "no documents in result"):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        errors.New("Resource not found"),
				kind:       ErrNotFound,
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "server selection error"),
			strings.Contains(errStr, "connection refused"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        errors.New("store unavailable, try again after sometime"),
				kind:       ErrStorage,
				Details:    details,
				Cause:      cause,
			}
		}
	}

	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%s operation failed, try again after sometime", entity),
		kind:       ErrStorage,
		Details:    details,
		Cause:      cause,
	}
}

// NewBlobError translates a blob-store failure. The response never carries
// driver detail; the cause is kept for logs only.
func NewBlobError(operation string, cause error) *ApiErr {
	if cause != nil && strings.Contains(cause.Error(), "not found") {
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        errors.New("Image not found"),
			kind:       ErrNotFound,
			Cause:      cause,
		}
	}
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        errors.New("Upload incomplete, try again with different image"),
		kind:       ErrStorage,
		Cause:      cause,
	}
}
