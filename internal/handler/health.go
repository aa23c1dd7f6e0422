package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weatheredge/internal/service"
)

type HealthHandler struct {
	Service   *service.IntelService
	Env       string
	GammaHost string
	ClobHost  string
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/api/status", h.status)
}

// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Engine status probe
// @Tags health
// @Success 200 {object} apiResponse
// @Router /api/status [get]
func (h *HealthHandler) status(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	Ok(c, h.Service.Status(h.Env, h.GammaHost, h.ClobHost), nil)
}
