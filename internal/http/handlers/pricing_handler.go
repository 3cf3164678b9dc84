// README: Price estimate handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waybill/internal/modules/pricing"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

func (h *PricingHandler) Estimate(c *gin.Context) {
	var req pricing.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	b, err := h.pricing.Estimate(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}
