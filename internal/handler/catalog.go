package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weatheredge/internal/catalog"
)

type CatalogHandler struct {
	Builder *catalog.Builder
	Logger  *zap.Logger
}

func (h *CatalogHandler) Register(r *gin.Engine) {
	group := r.Group("/api")
	group.GET("/catalog", h.getCatalog)
	group.POST("/catalog/refresh", h.refreshCatalog)
	group.GET("/tags", h.listTags)
}

// @Summary Candidate market catalog
// @Tags catalog
// @Param min_volume query number false "24h volume floor"
// @Param category query string false "category filter"
// @Success 200 {object} apiResponse
// @Router /api/catalog [get]
func (h *CatalogHandler) getCatalog(c *gin.Context) {
	if h.Builder == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	minVolume, ok := floatQueryPtr(c, "min_volume")
	if !ok || (minVolume != nil && *minVolume < 0) {
		Error(c, http.StatusBadRequest, "malformed min_volume", nil)
		return
	}
	floor := 0.0
	if minVolume != nil {
		floor = *minVolume
	}
	result := h.Builder.Build(c.Request.Context(), floor, strings.TrimSpace(c.Query("category")))
	Ok(c, result, countMeta(len(result.Markets), nil))
}

// @Summary Force a catalog rebuild
// @Tags catalog
// @Param category query string false "category filter"
// @Success 200 {object} apiResponse
// @Router /api/catalog/refresh [post]
func (h *CatalogHandler) refreshCatalog(c *gin.Context) {
	if h.Builder == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	category := strings.TrimSpace(c.Query("category"))
	result := h.Builder.Refresh(c.Request.Context(), category)
	if result.FetchError != "" && h.Logger != nil {
		h.Logger.Warn("catalog refresh degraded", zap.String("category", category),
			zap.String("fetch_error", result.FetchError))
	}
	Ok(c, result, countMeta(len(result.Markets), nil))
}

// @Summary Provider tag vocabulary
// @Tags catalog
// @Success 200 {object} apiResponse
// @Router /api/tags [get]
func (h *CatalogHandler) listTags(c *gin.Context) {
	if h.Builder == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	tags, err := h.Builder.Tags(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("tag fetch failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, tags, countMeta(len(tags), nil))
}
