package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func findEntry(logs []observer.LoggedEntry, msg string) *observer.LoggedEntry {
	for i := range logs {
		if logs[i].Message == msg {
			return &logs[i]
		}
	}
	return nil
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(GinMiddleware(zapLogger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	entry := findEntry(recorded.All(), "http request")
	require.NotNil(t, entry)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
}

func TestGinMiddleware_CarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	// Plant the request ID the way the request ID middleware does.
	router.Use(func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), RequestIDKey, "req-123")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	router.Use(GinMiddleware(zapLogger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	entry := findEntry(recorded.All(), "http request")
	require.NotNil(t, entry)

	found := false
	for _, field := range entry.Context {
		if field.Key == "request_id" {
			found = true
			assert.Equal(t, "req-123", field.String)
		}
	}
	assert.True(t, found, "request_id should be in log fields")
}

func TestGinMiddleware_InstallsContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, _ := observer.New(zapcore.InfoLevel)
	zapLogger := zap.New(core)

	var fromCtx *zap.Logger

	router := gin.New()
	router.Use(GinMiddleware(zapLogger))
	router.GET("/test", func(c *gin.Context) {
		fromCtx = FromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	require.NotNil(t, fromCtx)
	assert.Same(t, zapLogger, fromCtx)
}

func TestGinMiddleware_ClientErrorLogsWarn(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.WarnLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(GinMiddleware(zapLogger))
	router.GET("/error", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/error", nil)
	router.ServeHTTP(w, req)

	entry := findEntry(recorded.All(), "http request")
	require.NotNil(t, entry)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
}

func TestGinMiddleware_ServerErrorLogsError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(GinMiddleware(zapLogger))
	router.GET("/error", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/error", nil)
	router.ServeHTTP(w, req)

	entry := findEntry(recorded.All(), "http request")
	require.NotNil(t, entry)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
}

func TestGinMiddleware_LogsQueryAndStandardFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(GinMiddleware(zapLogger))
	router.GET("/search", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/search?q=key&page=1", nil)
	req.Header.Set("User-Agent", "Test-Agent/1.0")
	router.ServeHTTP(w, req)

	entry := findEntry(recorded.All(), "http request")
	require.NotNil(t, entry)

	fields := make(map[string]zapcore.Field)
	for _, field := range entry.Context {
		fields[field.Key] = field
	}
	for _, key := range []string{"method", "path", "status", "latency", "client_ip", "user_agent", "body_size"} {
		assert.Contains(t, fields, key)
	}
	require.Contains(t, fields, "query")
	assert.Contains(t, fields["query"].String, "q=key")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(Recovery(zapLogger))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "panic recovered", logs[0].Message)
}
