package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/sl"
)

const internalErrorMessage = "internal server error"

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError maps err to a status code and responds with {"error": msg}.
// Unclassified errors are logged and hidden behind a generic message.
func writeError(ctx *gin.Context, log *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.FullPath()),
			sl.Err(err),
		)
		ctx.AbortWithStatusJSON(status, gin.H{"error": internalErrorMessage})
		return
	}

	msg := domain.PublicMessage(err)
	if msg == "" {
		msg = http.StatusText(status)
	}
	ctx.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(ctx *gin.Context, msg string) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
