package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_CapturesOnlyUnescalatedServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var captured []error
	original := captureError
	captureError = func(err error, _ map[string]string) { captured = append(captured, err) }
	t.Cleanup(func() { captureError = original })

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCapture bool
	}{
		{"data corruption", fmt.Errorf("%w: cr-1 stores 3 credits", apperrors.ErrDataCorruption), http.StatusInternalServerError, false},
		{"reconciliation required", fmt.Errorf("%w: cr-1: %w", apperrors.ErrReconciliationRequired, apperrors.ErrLedgerUnavailable), http.StatusInternalServerError, false},
		{"unexpected failure", errors.New("connection refused"), http.StatusInternalServerError, true},
		{"retryable", apperrors.ErrConfirmationTimeout, http.StatusServiceUnavailable, false},
		{"client error", apperrors.ErrInvalidTransition, http.StatusConflict, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured = nil
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/credits/cr-1/approve", nil)

			respondError(c, tt.err, "Approve credit request")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCapture {
				assert.Len(t, captured, 1)
			} else {
				assert.Empty(t, captured)
			}
		})
	}
}
