package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mkarras/kindertrack/utils"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id for log correlation. An incoming
// X-Request-Id from a trusted proxy is kept, otherwise a fresh one is issued.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rid := ctx.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.Set(utils.ContextRequestIDKey, rid)
		ctx.Header(requestIDHeader, rid)
		ctx.Next()
	}
}
