package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/middleware"
)

// parseIDParam reads a positive integer path parameter. On failure it writes
// a 400 response and returns false.
func parseIDParam(ctx *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondBadRequest(ctx, dto.ErrorCodeBadRequest, "Invalid "+label, label+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// parseIDPair reads the owner ":id" parameter and a second, related one
func parseIDPair(ctx *gin.Context, idLabel, otherParam, otherLabel string) (int64, int64, bool) {
	id, ok := parseIDParam(ctx, "id", idLabel)
	if !ok {
		return 0, 0, false
	}
	other, ok := parseIDParam(ctx, otherParam, otherLabel)
	if !ok {
		return 0, 0, false
	}
	return id, other, true
}

func respondOK(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data, message))
}

func respondCreated(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(data, message))
}
