package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Category codes surfaced alongside the HTTP status so clients can
// branch without parsing messages.
const (
	CodeValidation         = "validation"
	CodeNotFound           = "not_found"
	CodeSoldOut            = "sold_out"
	CodeStatusConflict     = "status_conflict"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInternal           = "internal"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

func RespondWithCode(c *gin.Context, statusCode int, code, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    code,
		Message: customMessage,
	})
}
