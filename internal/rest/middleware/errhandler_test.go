package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/test", handler)
	return r
}

func doRequest(r *gin.Engine) (*httptest.ResponseRecorder, ierr.ErrorResponse) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)

	var body ierr.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestErrorHandlerNotFound(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		c.Error(ierr.NewError("tax rule not found").
			WithHint("Tax rule with ID taxrule_123 was not found").
			Mark(ierr.ErrNotFound))
	})

	w, body := doRequest(r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Tax rule with ID taxrule_123 was not found", body.Error.Display)
}

// A missing tax rule for a period is a semantic condition, not a routing
// miss: it must map to 422
func TestErrorHandlerTaxNotConfigured(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		c.Error(ierr.NewError("no active tax rule").
			WithHint("No active tax rule found for date 2025-07-01").
			WithReportableDetails(map[string]any{
				"property_id": "property_test",
			}).
			Mark(ierr.ErrTaxNotConfigured))
	})

	w, body := doRequest(r)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "No active tax rule found for date 2025-07-01", body.Error.Display)
	require.NotNil(t, body.Error.Details)
	assert.Equal(t, "property_test", body.Error.Details["property_id"])
}

func TestErrorHandlerUnknownError(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		c.Error(ierr.NewError("boom").Error())
	})

	w, body := doRequest(r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An unexpected error occurred", body.Error.Display)
}

func TestErrorHandlerNoError(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w, _ := doRequest(r)
	assert.Equal(t, http.StatusOK, w.Code)
}
