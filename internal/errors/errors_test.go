package errors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		category ErrorCategory
		status   int
		message  string
	}{
		{"validation", NewValidationError("bad questionnaire", "A1"), CategoryValidation, http.StatusBadRequest, "[VALIDATION_ERROR] bad questionnaire"},
		{"undeterminable", NewUndeterminableError("no frames classified", nil), CategoryUndeterminable, http.StatusUnprocessableEntity, "[UNDETERMINABLE_SIGNAL] no frames classified"},
		{"timeout", NewTimeoutError("model timed out", nil), CategoryTimeout, http.StatusGatewayTimeout, "[TIMEOUT_ERROR] model timed out"},
		{"rate limit", NewRateLimitError("60s"), CategoryRateLimit, http.StatusTooManyRequests, "[RATE_LIMIT_EXCEEDED] Rate limit exceeded"},
		{"model server", NewExternalAPIError("Model server", fmt.Errorf("503")), CategoryExternalAPI, http.StatusBadGateway, "[MODEL_SERVER_ERROR] Model server error"},
		{"internal", NewInternalError("boom", nil), CategoryInternal, http.StatusInternalServerError, "[INTERNAL_ERROR] Internal server error"},
		{"configuration", NewConfigurationError("missing key", nil), CategoryConfiguration, http.StatusInternalServerError, "[CONFIGURATION_ERROR] Configuration error: missing key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.message, tt.err.Error())
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestToAppError(t *testing.T) {
	assert.Nil(t, ToAppError(nil))

	original := NewValidationError("bad input")
	assert.Same(t, original, ToAppError(fmt.Errorf("handler: %w", original)))

	builder := errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("raw builder")
	assert.Equal(t, CategoryInternal, ToAppError(builder).Category)

	assert.Equal(t, CategoryTimeout, ToAppError(fmt.Errorf("predict: %w", context.DeadlineExceeded)).Category)
	assert.Equal(t, CategoryTimeout, ToAppError(context.Canceled).Category)
	assert.Equal(t, CategoryExternalAPI, ToAppError(fmt.Errorf("dial tcp: connection refused")).Category)
	assert.Equal(t, CategoryInternal, ToAppError(fmt.Errorf("something odd")).Category)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(NewExternalAPIError("Model server", nil)))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.False(t, IsTransient(NewValidationError("bad")))
	assert.False(t, IsTransient(NewUndeterminableError("no frames", nil)))
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))

	cause := fmt.Errorf("disk full")
	wrapped := WrapError(cause, "store session %d", 7)
	assert.EqualError(t, wrapped, "store session 7: disk full")
	assert.ErrorIs(t, wrapped, cause)
}

func TestNewValidationErrorWithMap(t *testing.T) {
	err := NewValidationErrorWithMap(map[string]string{
		"A1":             "must be 0 or 1",
		"Qchat_10_Score": "must be between 0 and 10",
	})

	assert.Equal(t, CategoryValidation, err.Category)
	assert.Equal(t, "Multiple validation errors", err.Msg)
}

func TestErrorHandlerRendersLastError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewExternalAPIError("Model server", nil))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotEmpty(t, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryHandler(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("frame buffer corrupted")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
