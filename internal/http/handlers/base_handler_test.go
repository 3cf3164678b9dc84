package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waybill/internal/modules/orderflow"
	"waybill/internal/modules/upload"
	"waybill/internal/modules/verification"
	"waybill/internal/wizard"
)

func TestIsValidID(t *testing.T) {
	assert.True(t, isValidID("3f2a9c0b7d1e4f5a8b6c2d0e9f1a3b4c"))
	assert.False(t, isValidID(""))
	assert.False(t, isValidID("3f2a9c0b-7d1e-4f5a-8b6c-2d0e9f1a3b4c"))
	assert.False(t, isValidID("3f2a9c0b7d1e4f5a8b6c2d0e9f1a3b4c0"))
}

func TestWriteServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		want int
	}{
		{&orderflow.ValidationError{Step: "type", Fields: wizard.FieldErrors{"orderType": "x"}}, http.StatusUnprocessableEntity},
		{&verification.ValidationError{Step: "basic"}, http.StatusUnprocessableEntity},
		{&orderflow.SubmitError{Message: "try again"}, http.StatusBadGateway},
		{orderflow.ErrSessionNotFound, http.StatusNotFound},
		{verification.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("wrap: %w", orderflow.ErrNotDraft), http.StatusConflict},
		{wizard.ErrJumpForward, http.StatusConflict},
		{orderflow.ErrAlreadySubmitted, http.StatusConflict},
		{verification.ErrAlreadySubmitted, http.StatusConflict},
		{verification.ErrUnknownDocument, http.StatusBadRequest},
		{upload.ErrUnsupportedType, http.StatusBadRequest},
		{verification.ErrFetchFailed, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeServiceError(c, tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestWriteServiceError_ValidationBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeServiceError(c, &orderflow.ValidationError{Step: "package", Fields: wizard.FieldErrors{"package.category": "Please select a category"}})

	var body validationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, wizard.StepID("package"), body.Step)
	assert.Equal(t, "Please select a category", body.Errors["package.category"])
}
