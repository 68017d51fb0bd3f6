package mw

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_LimitsListedMethodsOnly(t *testing.T) {
	router := gin.New()
	router.Use(RateLimiter(rate.Limit(0.001), 2, http.MethodPost))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.POST("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	assert.Equal(t, http.StatusOK, perform(router, http.MethodPost, "/").Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodPost, "/").Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(router, http.MethodPost, "/").Code)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/").Code)
	}
}

func TestClientLimiters_SameLimiterPerIP(t *testing.T) {
	l := NewClientLimiters(rate.Limit(1), 1)
	assert.Same(t, l.Get("1.1.1.1"), l.Get("1.1.1.1"))
	assert.NotSame(t, l.Get("1.1.1.1"), l.Get("2.2.2.2"))
}

func TestRequireToken(t *testing.T) {
	router := gin.New()
	router.GET("/open", RequireToken("secret"), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/closed", RequireToken(""), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	send := func(path, auth string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("/open", "Bearer secret"))
	assert.Equal(t, http.StatusUnauthorized, send("/open", ""))
	assert.Equal(t, http.StatusUnauthorized, send("/open", "Bearer wrong"))
	assert.Equal(t, http.StatusUnauthorized, send("/open", "secret"))
	assert.Equal(t, http.StatusForbidden, send("/closed", "Bearer "))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	router := gin.New()
	router.Use(Logger(&logger))
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	perform(router, http.MethodGet, "/boom")
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"path":"/boom"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
