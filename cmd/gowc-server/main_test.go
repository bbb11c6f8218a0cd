package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-wc/config"
	"github.com/gcbaptista/go-wc/internal/jobs"
)

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	opts := config.NewServerOptions()
	opts.ApplyDefaults()

	manager := jobs.NewManager(1, 0, nil)
	manager.Start()
	defer manager.Stop()

	router := newRouter(opts, zap.NewNop(), newRegistry(manager), manager)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/count",
		strings.NewReader(`{"inputs":[{"name":"a","text":"one two\n"}]}`)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"words":2`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "gowc_inputs_processed_total 1")
	assert.Contains(t, body, "go_goroutines")
}
