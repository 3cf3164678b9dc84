// README: Driver verification wizard handlers.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"waybill/internal/http/middleware"
	"waybill/internal/modules/verification"
	"waybill/internal/types"
	"waybill/internal/wizard"
)

type VerificationHandler struct {
	verification *verification.Service
}

func NewVerificationHandler(svc *verification.Service) *VerificationHandler {
	return &VerificationHandler{verification: svc}
}

type startVerificationReq struct {
	VehicleType string `json:"vehicleType"`
}

func (h *VerificationHandler) Start(c *gin.Context) {
	var req startVerificationReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	sess, err := h.verification.Start(c.Request.Context(), verification.StartCommand{
		DriverID:    types.ID(middleware.CallerUID(c)),
		VehicleType: verification.VehicleType(req.VehicleType),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, sess.Snapshot())
}

func (h *VerificationHandler) session(c *gin.Context) (*verification.Session, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	sess, err := h.verification.Session(types.ID(id), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	return sess, true
}

func (h *VerificationHandler) Get(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, sess.Snapshot())
}

func (h *VerificationHandler) Patch(c *gin.Context) {
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
	patch, err := verification.DecodePatch(section, raw)
	if err != nil {
		if errors.Is(err, verification.ErrUnknownSection) {
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

func (h *VerificationHandler) Next(c *gin.Context) {
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

// Previous at the intro step reports exit; the session stays open until End.
func (h *VerificationHandler) Previous(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	step, moved := sess.GoToPrevious()
	exit := !moved && isFirstStep(sess.Snapshot().Steps, step)
	writeJSON(c, http.StatusOK, navigationResp{Step: step, Moved: moved, Exit: exit})
}

func (h *VerificationHandler) Jump(c *gin.Context) {
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

// Submit always answers with the status modal when the submission ran; a
// failed submission is a 502 carrying the retry modal.
func (h *VerificationHandler) Submit(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}
	modal, err := h.verification.Submit(c.Request.Context(), types.ID(id), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	status := http.StatusOK
	if modal.Status == verification.ModalError {
		status = http.StatusBadGateway
	}
	writeJSON(c, status, map[string]any{"statusModal": modal})
}

func (h *VerificationHandler) End(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}
	if err := h.verification.End(types.ID(id), types.ID(middleware.CallerUID(c))); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Requirements lists the documents a vehicle class needs in a state.
func (h *VerificationHandler) Requirements(c *gin.Context) {
	vt := verification.VehicleType(c.Query("vehicle_type"))
	if !vt.Valid() {
		writeError(c, http.StatusBadRequest, verification.MsgBadVehicle)
		return
	}
	keys := verification.RequiredDocuments(vt, c.Query("state"))
	docs := make([]map[string]string, 0, len(keys))
	for _, k := range keys {
		docs = append(docs, map[string]string{"key": k, "label": verification.DocumentLabel(k)})
	}
	writeJSON(c, http.StatusOK, map[string]any{"vehicleType": vt, "documents": docs})
}
