// Package ctxutil carries the HTTP request id from gin into the context handed
// to application services, so repository and gorm logs can report it.
package ctxutil

import (
	"context"

	"aquadash/api/response"
	"aquadash/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
