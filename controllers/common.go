package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekinacar/kafe-adisyon/services"
	"github.com/ekinacar/kafe-adisyon/utils"
)

// respondServiceError translates a service error kind into the HTTP status
// the presentation contract promises.
func respondServiceError(c *gin.Context, err error) {
	utils.RespondError(c, statusForError(err), err)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
