package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/medisave/internal/apperrors"
	"github.com/SscSPs/medisave/internal/dto"
	"github.com/gin-gonic/gin"
)

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Success: false, Error: msg})
}

// respondServiceError maps service errors to HTTP status codes. fallback is
// the message shown for unexpected failures.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrUnavailable):
		logger.Warn("Collaborator unavailable", slog.String("error", err.Error()))
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, apperrors.ErrUpstream):
		logger.Error("Upstream failure", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadGateway, fallback)
	case errors.As(err, &appErr):
		logger.Error(fallback, slog.String("error", err.Error()))
		abortWithError(c, appErr.Code, appErr.Message)
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
