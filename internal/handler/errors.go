package handler

import (
	"log"
	"net/http"

	"barangay/pkg/apperr"
	"barangay/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps a coded domain error onto the transport. Storage errors are
// logged and reported generically so internals never reach clients.
func writeError(c *gin.Context, err error) {
	switch apperr.CodeOf(err) {
	case apperr.CodeValidation:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, apperr.MessageOf(err, "Invalid request")))
	case apperr.CodeNotFound:
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, apperr.MessageOf(err, "Not found")))
	case apperr.CodeConflict:
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, apperr.MessageOf(err, "Conflict")))
	default:
		log.Printf("ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Database error occurred"))
	}
}
