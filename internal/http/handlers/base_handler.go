// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"waybill/internal/modules/orderflow"
	"waybill/internal/modules/pricing"
	"waybill/internal/modules/upload"
	"waybill/internal/modules/verification"
	"waybill/internal/wizard"
)

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error  string             `json:"error"`
	Step   wizard.StepID      `json:"step"`
	Errors wizard.FieldErrors `json:"errors"`
}

// isValidID ensures IDs are alphanumeric and at most 32 chars (matches current ID generator).
func isValidID(v string) bool {
	if v == "" || len(v) > 32 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError maps module errors to status codes. Unknown errors are
// logged through gin and reported as 500.
func writeServiceError(c *gin.Context, err error) {
	var (
		ov *orderflow.ValidationError
		vv *verification.ValidationError
		se *orderflow.SubmitError
	)
	switch {
	case errors.As(err, &ov):
		writeJSON(c, http.StatusUnprocessableEntity, validationResponse{Error: "validation failed", Step: ov.Step, Errors: ov.Fields})
	case errors.As(err, &vv):
		writeJSON(c, http.StatusUnprocessableEntity, validationResponse{Error: "validation failed", Step: vv.Step, Errors: vv.Fields})
	case errors.As(err, &se):
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, se.Message)

	case errors.Is(err, orderflow.ErrNotFound),
		errors.Is(err, orderflow.ErrSessionNotFound),
		errors.Is(err, verification.ErrSessionNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, orderflow.ErrForbidden),
		errors.Is(err, verification.ErrForbidden):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, orderflow.ErrNotDraft),
		errors.Is(err, orderflow.ErrSubmitInProgress),
		errors.Is(err, orderflow.ErrNotReviewStep),
		errors.Is(err, orderflow.ErrSessionClosed),
		errors.Is(err, orderflow.ErrAlreadySubmitted),
		errors.Is(err, verification.ErrSubmitInProgress),
		errors.Is(err, verification.ErrAlreadySubmitted),
		errors.Is(err, verification.ErrNotReviewStep),
		errors.Is(err, verification.ErrSessionClosed),
		errors.Is(err, wizard.ErrJumpForward),
		errors.Is(err, wizard.ErrNoNextStep):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, orderflow.ErrBadRequest),
		errors.Is(err, orderflow.ErrUnknownSection),
		errors.Is(err, verification.ErrBadRequest),
		errors.Is(err, verification.ErrUnknownSection),
		errors.Is(err, verification.ErrUnknownDocument),
		errors.Is(err, wizard.ErrUnknownStep),
		errors.Is(err, pricing.ErrBadRequest),
		errors.Is(err, upload.ErrBadRequest),
		errors.Is(err, upload.ErrUnsupportedType):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, verification.ErrFetchFailed):
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
