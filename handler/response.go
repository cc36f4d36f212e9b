package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinantan/document-chat-assistant/middleware"
	"github.com/sinantan/document-chat-assistant/types"
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, types.DataResponse{
		Status: "success",
		Data:   data,
	})
}

// respondError renders domain errors with their own code and status;
// anything unrecognized is downgraded to a generic internal error so
// internal detail never reaches the client.
func respondError(c *gin.Context, err error) {
	requestID := c.GetString(middleware.RequestIDKey)

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, types.ErrorResponse{
			Error:     appErr.Code,
			Message:   appErr.Message,
			Details:   appErr.Details,
			RequestID: requestID,
		})
		return
	}

	log.Printf("Unhandled error (request %s): %v", requestID, err)
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{
		Error:     types.ErrCodeInternal,
		Message:   "An internal server error occurred",
		RequestID: requestID,
	})
}
