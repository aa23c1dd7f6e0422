// Package handler exposes the engine over HTTP. Every endpoint answers with
// the same {code, message, data, meta} envelope; degraded upstream states are
// 200s with a fetch_error payload, only caller mistakes are 4xx.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// countMeta builds the list-endpoint meta: item count plus any extras. Used
// so degraded payloads still report a count of zero rather than no meta.
func countMeta(count int, extra map[string]any) map[string]any {
	meta := map[string]any{"count": count}
	for k, v := range extra {
		meta[k] = v
	}
	return meta
}
