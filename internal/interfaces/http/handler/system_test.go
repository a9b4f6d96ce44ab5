package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSystemHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewSystemHandler("storefront", nil).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), "storefront")
}

func TestSystemHandler_Health_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewSystemHandler("storefront", func() error {
		return errors.New("connection refused")
	}).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
