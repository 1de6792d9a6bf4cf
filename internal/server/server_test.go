package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edurecords/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func staticRouter(t *testing.T, staticPath string) *gin.Engine {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.StaticPath = staticPath

	router := gin.New()
	router.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	setupStaticFileServing(router, cfg, zerolog.Nop())
	return router
}

func serve(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestStaticFileServing_SPA(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>app</html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("console.log(1)"), 0o600))

	router := staticRouter(t, root)

	w := serve(router, http.MethodGet, "/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	// client-side routes fall back to the app shell
	w = serve(router, http.MethodGet, "/students/42/edit")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<html>app</html>")

	w = serve(router, http.MethodGet, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RES_001")

	w = serve(router, http.MethodPost, "/students")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticFileServing_Disabled(t *testing.T) {
	for _, root := range []string{"", t.TempDir()} {
		router := staticRouter(t, root)

		w := serve(router, http.MethodGet, "/students")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Route not found")
	}
}
