// Package dto defines the HTTP request/response shapes and the shared
// response helpers.
package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/ferrocrete/sitegate/pkg/errors"
)

// ErrorBody is the uniform error envelope: a human-readable message and
// a machine-readable code. Internal detail (causes, metadata) stays in
// the security-event log, never in the response.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// SendError writes the mapped error response. Unknown errors are
// reclassified as internal so nothing unmapped reaches the client.
func SendError(c *gin.Context, err error) {
	appErr := errors.Classify(err)
	c.JSON(appErr.Status, ErrorBody{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
	})
}

// AbortWithError writes the error response and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	SendError(c, err)
	c.Abort()
}

// SendSuccess writes a success payload with the given status.
func SendSuccess(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}
