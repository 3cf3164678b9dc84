// README: Presigned upload URL handler for wizard images.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waybill/internal/http/middleware"
	"waybill/internal/modules/upload"
)

type UploadHandler struct {
	uploads *upload.Service
}

func NewUploadHandler(svc *upload.Service) *UploadHandler {
	return &UploadHandler{uploads: svc}
}

func (h *UploadHandler) Presign(c *gin.Context) {
	var req upload.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	// uploads are namespaced by the caller
	if req.FileIdentifier == "" {
		req.FileIdentifier = middleware.CallerUID(c)
	}
	resp, err := h.uploads.Presign(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}
