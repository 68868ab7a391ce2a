package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/apperror"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes err as a JSON error response. AppError values surface with
// their own status code and message; anything else is logged and hidden
// behind a generic 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
