// README: Order wizard handlers; session lifecycle, section patches, navigation, and submission.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"waybill/internal/http/middleware"
	"waybill/internal/modules/orderflow"
	"waybill/internal/types"
	"waybill/internal/wizard"
)

type OrderWizardHandler struct {
	orders *orderflow.Service
}

func NewOrderWizardHandler(svc *orderflow.Service) *OrderWizardHandler {
	return &OrderWizardHandler{orders: svc}
}

type startOrderWizardReq struct {
	DraftID string `json:"draftId"`
}

type jumpReq struct {
	Step string `json:"step"`
}

type submitOrderReq struct {
	DeviceInfo string `json:"deviceInfo"`
	Channel    string `json:"channel"`
}

type navigationResp struct {
	Step  wizard.StepID `json:"step"`
	Moved bool          `json:"moved"`
	Exit  bool          `json:"exit,omitempty"`
}

// isFirstStep tells a refused back move at the first step (exit the wizard)
// apart from one refused during submission.
func isFirstStep(steps []wizard.StepDefinition, step wizard.StepID) bool {
	return len(steps) > 0 && steps[0].ID == step
}

func (h *OrderWizardHandler) Start(c *gin.Context) {
	var req startOrderWizardReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if req.DraftID != "" && !isValidID(req.DraftID) {
		writeError(c, http.StatusBadRequest, "invalid draft id")
		return
	}
	sess, err := h.orders.Start(c.Request.Context(), orderflow.StartCommand{
		ClientID: types.ID(middleware.CallerUID(c)),
		DraftID:  types.ID(req.DraftID),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, sess.Snapshot())
}

// session resolves the :id path param to the caller's session, writing the
// error response when it cannot.
func (h *OrderWizardHandler) session(c *gin.Context) (*orderflow.Session, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	sess, err := h.orders.Session(types.ID(id), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	return sess, true
}

func (h *OrderWizardHandler) Get(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, sess.Snapshot())
}

func (h *OrderWizardHandler) Patch(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unreadable body")
		return
	}
	section := c.Param("section")
	patch, err := orderflow.DecodePatch(section, raw)
	if err != nil {
		if errors.Is(err, orderflow.ErrUnknownSection) {
			writeServiceError(c, err)
			return
		}
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := sess.Update(section, patch); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sess.Snapshot())
}

func (h *OrderWizardHandler) Next(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := sess.GoToNext(); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sess.Snapshot())
}

func (h *OrderWizardHandler) Previous(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	step, moved := sess.GoToPrevious()
	exit := !moved && isFirstStep(sess.Snapshot().Steps, step)
	writeJSON(c, http.StatusOK, navigationResp{Step: step, Moved: moved, Exit: exit})
}

func (h *OrderWizardHandler) Jump(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req jumpReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Step == "" {
		writeError(c, http.StatusBadRequest, "missing step")
		return
	}
	if err := sess.JumpTo(wizard.StepID(req.Step)); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sess.Snapshot())
}

// RefreshEstimate starts a recomputation and returns immediately; clients
// poll the session for the result.
func (h *OrderWizardHandler) RefreshEstimate(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.RefreshEstimate()
	writeJSON(c, http.StatusAccepted, sess.Snapshot())
}

func (h *OrderWizardHandler) Submit(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}
	var req submitOrderReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if req.DeviceInfo == "" {
		req.DeviceInfo = c.Request.UserAgent()
	}
	res, err := h.orders.Submit(c.Request.Context(), types.ID(id), types.ID(middleware.CallerUID(c)), orderflow.Metadata{
		DeviceIP:   c.ClientIP(),
		DeviceInfo: req.DeviceInfo,
		Channel:    req.Channel,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, res)
}

func (h *OrderWizardHandler) End(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}
	if err := h.orders.End(types.ID(id), types.ID(middleware.CallerUID(c))); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
