package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses.
// Client errors carry the domain message; anything unrecognised becomes a 500
// and is logged.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		respondError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()))
	case errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, err.Error()))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()).
			WithSeverity(dto.ErrorSeverityWarning))
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respondError(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()).
			WithSeverity(dto.ErrorSeverityWarning))
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error()).
			WithSeverity(dto.ErrorSeverityWarning))
	default:
		logger.Error().Err(err).
			Str("requestID", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error while serving request")
		respondError(c, http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical))
	}
}

// RespondBadRequest writes a 400 with the given code, message and optional details
func RespondBadRequest(c *gin.Context, code dto.ErrorCode, message string, details interface{}) {
	detail := dto.NewErrorDetail(code, message)
	if details != nil {
		detail = detail.WithDetails(details)
	}
	respondError(c, http.StatusBadRequest, detail)
}

func respondError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
