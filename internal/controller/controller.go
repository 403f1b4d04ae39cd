// Package controller holds helpers shared by the admin and user HTTP
// controllers.
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/rs/zerolog/log"
)

// RespondError writes err as a dto.ErrorResponse with the status its type
// maps to. Internal errors are logged and not echoed to the client.
func RespondError(ctx *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Request failed")
		ctx.JSON(status, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	ctx.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

// BindJSON decodes the body into req and answers 400 on failure.
func BindJSON(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// UintParam parses a positive integer path parameter and answers 400 when it
// is malformed.
func UintParam(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || v == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(v), true
}
