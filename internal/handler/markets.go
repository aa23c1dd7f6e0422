package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weatheredge/internal/models"
	"weatheredge/internal/service"
)

type MarketsHandler struct {
	Service *service.IntelService
	Logger  *zap.Logger
}

func (h *MarketsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/markets")
	group.GET("/ranked", h.ranked)
	group.GET("/classify", h.classifyByID)
	group.POST("/classify", h.classifyBody)
}

// @Summary Ranked weather-edge markets
// @Tags markets
// @Param limit query int false "max results"
// @Param min_volume query number false "24h volume floor"
// @Param category query string false "category filter"
// @Param location query string false "venue substring filter"
// @Param confidence query string false "minimum tier (LOW|MEDIUM|HIGH)"
// @Param allow_categories query string false "comma-separated categories kept at zero score"
// @Param temp_f query number false "temperature F"
// @Param condition query string false "condition label"
// @Param precip_pct query number false "precipitation chance percent"
// @Param wind_mph query number false "wind speed mph"
// @Param humidity_pct query number false "humidity percent"
// @Success 200 {object} apiResponse
// @Router /api/markets/ranked [get]
func (h *MarketsHandler) ranked(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	minVolume, ok := floatQueryPtr(c, "min_volume")
	if !ok {
		Error(c, http.StatusBadRequest, "malformed min_volume", nil)
		return
	}
	weather, ok := weatherFromQuery(c)
	if !ok {
		Error(c, http.StatusBadRequest, "malformed weather parameter", nil)
		return
	}

	result, err := h.Service.RankMarkets(c.Request.Context(), service.RankRequest{
		Limit:           intQuery(c, "limit", 0),
		MinVolume:       minVolume,
		Category:        strings.TrimSpace(c.Query("category")),
		Location:        strings.TrimSpace(c.Query("location")),
		Confidence:      c.Query("confidence"),
		AllowCategories: listQuery(c, "allow_categories"),
		Weather:         weather,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if h.Logger != nil {
			h.Logger.Warn("rank markets failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, countMeta(len(result.Items), map[string]any{
		"total_candidates": result.TotalCandidates,
		"cached":           result.Cached,
	}))
}

// @Summary Classify a catalog market by id
// @Tags markets
// @Param id query string true "market id"
// @Success 200 {object} apiResponse
// @Router /api/markets/classify [get]
func (h *MarketsHandler) classifyByID(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	market, classification, err := h.Service.ClassifyByID(c.Request.Context(), c.Query("id"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if h.Logger != nil {
			h.Logger.Warn("classify by id failed", zap.String("id", c.Query("id")), zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"market": market, "classification": classification}, nil)
}

// @Summary Classify a caller-supplied market record
// @Tags markets
// @Param market body models.Market true "market record"
// @Success 200 {object} apiResponse
// @Router /api/markets/classify [post]
func (h *MarketsHandler) classifyBody(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var market models.Market
	if err := c.ShouldBindJSON(&market); err != nil {
		Error(c, http.StatusBadRequest, "malformed market body: "+err.Error(), nil)
		return
	}
	classification, err := h.Service.Classify(market)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"classification": classification}, nil)
}

// weatherFromQuery assembles an optional weather context from query params.
// No weather params at all means nil; any malformed numeric means reject.
func weatherFromQuery(c *gin.Context) (*models.WeatherContext, bool) {
	keys := []string{"temp_f", "precip_pct", "wind_mph", "humidity_pct"}
	vals := map[string]*float64{}
	provided := false
	for _, key := range keys {
		v, ok := floatQueryPtr(c, key)
		if !ok {
			return nil, false
		}
		if v != nil {
			provided = true
		}
		vals[key] = v
	}
	condition := strings.TrimSpace(c.Query("condition"))
	if condition != "" {
		provided = true
	}
	if !provided {
		return nil, true
	}
	w := &models.WeatherContext{Condition: condition}
	if v := vals["temp_f"]; v != nil {
		w.TempF = *v
	}
	if v := vals["precip_pct"]; v != nil {
		w.PrecipChancePct = *v
	}
	if v := vals["wind_mph"]; v != nil {
		w.WindMPH = *v
	}
	if v := vals["humidity_pct"]; v != nil {
		w.HumidityPct = *v
	}
	return w, true
}
