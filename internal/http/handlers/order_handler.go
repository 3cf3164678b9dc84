// README: Order handlers for create, get, and draft listing.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"waybill/internal/http/middleware"
	"waybill/internal/modules/orderflow"
	"waybill/internal/types"
)

type OrderHandler struct {
	orders *orderflow.Service
}

func NewOrderHandler(svc *orderflow.Service) *OrderHandler {
	return &OrderHandler{orders: svc}
}

type orderResp struct {
	ID        types.ID               `json:"id"`
	Reference string                 `json:"orderReference"`
	Status    orderflow.Status       `json:"status"`
	Total     types.Money            `json:"total"`
	Payload   orderflow.OrderPayload `json:"payload"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

func toOrderResp(o *orderflow.Order) orderResp {
	p := o.Payload
	// the delivery token is shown to the client once, on the confirmation screen
	p.DeliveryToken = ""
	return orderResp{
		ID:        o.ID,
		Reference: o.Reference,
		Status:    o.Status,
		Total:     o.PriceTotal,
		Payload:   p,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// Create accepts a finalized payload. The client id always comes from the token.
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderflow.OrderPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.OrderReference == "" {
		writeError(c, http.StatusBadRequest, "missing orderReference")
		return
	}
	if req.DraftID != "" && !isValidID(string(req.DraftID)) {
		writeError(c, http.StatusBadRequest, "invalid draft id")
		return
	}
	req.ClientID = types.ID(middleware.CallerUID(c))
	if req.Status == "" {
		req.Status = orderflow.StatusPending
	}
	res, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !res.Success {
		writeJSON(c, http.StatusConflict, res)
		return
	}
	writeJSON(c, http.StatusCreated, res)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := h.orders.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	// other clients' orders are reported as missing
	if o.ClientID != types.ID(middleware.CallerUID(c)) {
		writeServiceError(c, orderflow.ErrNotFound)
		return
	}
	writeJSON(c, http.StatusOK, toOrderResp(o))
}

func (h *OrderHandler) ListDrafts(c *gin.Context) {
	drafts, err := h.orders.ListDrafts(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]orderResp, 0, len(drafts))
	for _, o := range drafts {
		out = append(out, toOrderResp(o))
	}
	writeJSON(c, http.StatusOK, map[string]any{"drafts": out})
}
