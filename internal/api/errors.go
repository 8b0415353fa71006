package api

import (
	"errors"
	"net/http"

	"softfocus/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	var noSelection *domain.NoSelectionError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &noSelection):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
