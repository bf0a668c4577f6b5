package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Application codes carried in the envelope alongside the HTTP status.
const (
	codeOK           = 0
	codeBadRequest   = 40001
	codeNotFound     = 40401
	codeConflict     = 40901
	codeRateLimited  = 42901
	codeStorageFault = 50301
	codeInternal     = 50001
)

// JSONResponse is the uniform envelope for every API response.
type JSONResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(ctx *gin.Context, status, code int, message string, data any) {
	ctx.JSON(status, JSONResponse{Code: code, Message: message, Data: data})
}

func success(ctx *gin.Context, data any) {
	respond(ctx, http.StatusOK, codeOK, "success", data)
}

func created(ctx *gin.Context, data any) {
	respond(ctx, http.StatusCreated, codeOK, "created", data)
}

func fail(ctx *gin.Context, status, code int, message string) {
	respond(ctx, status, code, message, nil)
}
