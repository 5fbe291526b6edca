package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"marketplace-api/internal/repositories"
	"marketplace-api/pkg/lambda"
)

// ErrUnauthorized is returned when a request carries no caller identity
var ErrUnauthorized = errors.New("unauthorized")

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

const internalErrorMessage = "Internal server error"

// statusFor maps an error onto an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case repositories.IsClientError(err):
		return http.StatusBadRequest
	case repositories.IsForbidden(err):
		return http.StatusForbidden
	case repositories.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the message a client may see for err. Layers above
// the repository add context, so the innermost repository error is preferred.
func publicMessage(err error) string {
	var repoErr *repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.Error()
	}
	return err.Error()
}

// errorResponse renders err. Server errors are logged and replaced with a generic message.
func errorResponse(logger *logrus.Logger, req *lambda.Request, err error) (*lambda.Response, error) {
	status := statusFor(err)

	fields := logrus.Fields{
		"method":     req.Method,
		"path":       req.Path,
		"status":     status,
		"request_id": req.RequestID,
	}

	if status == http.StatusInternalServerError {
		logger.WithFields(fields).WithError(err).Error("Request failed")
		return lambda.JSON(status, ErrorResponse{Error: internalErrorMessage})
	}

	logger.WithFields(fields).WithError(err).Debug("Request rejected")
	return lambda.JSON(status, ErrorResponse{Error: publicMessage(err)})
}
