package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	RespondErrorMessage(c, status, code, msg, nil)
}

func RespondErrorMessage(c *gin.Context, status int, code, msg string, details []string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
			Details: details,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
