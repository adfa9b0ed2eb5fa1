package middleware

import (
	"strings"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware turns the last handler error into the standard
// error response
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		response := ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Code:      ierr.CodeFromErr(err),
				Display:   getDisplayMessage(err),
				Retryable: ierr.IsRetryable(err),
				Details:   ierr.GetReportableDetails(err),
			},
		}
		if len(response.Error.Details) == 0 {
			response.Error.Details = nil
		}

		c.JSON(ierr.HTTPStatusFromErr(err), response)
	}
}

func getDisplayMessage(err error) string {
	// hints are collected innermost first
	for _, hint := range strings.Split(ierr.GetAllHints(err), "\n") {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return "An unexpected error occurred"
}
