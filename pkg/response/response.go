package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GenericMessage is the only text a client ever sees for an internal failure.
const GenericMessage = "Oeeeps, something went wrong."

type ErrorBody struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes data as the whole response body.
func JSON[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// Error aborts the chain and writes {message}.
func Error(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Message:   message,
		RequestID: ctx.GetString("request_id"),
	})
}

// Internal writes a 500 with the generic message.
func Internal(ctx *gin.Context) {
	Error(ctx, http.StatusInternalServerError, GenericMessage)
}

// ResetContent answers 205 with an empty body.
func ResetContent(ctx *gin.Context) {
	ctx.Status(http.StatusResetContent)
	ctx.Writer.WriteHeaderNow()
}
