package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{" ", ""}).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"http://localhost:3000", "*"}).AllowAllOrigins)

	conf := corsConfig([]string{" http://localhost:3000 ", "https://school.example"})
	assert.False(t, conf.AllowAllOrigins)
	assert.Equal(t, []string{"http://localhost:3000", "https://school.example"}, conf.AllowOrigins)
	assert.Contains(t, conf.AllowMethods, http.MethodDelete)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"

	_, err := OpenStore(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMemoryStoreRouter(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverMemory
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}

	store, err := OpenStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, store.Driver())

	router := SetupRouter(cfg, BuildDependencies(store, zerolog.Nop()), zerolog.Nop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, config.DriverMemory, body["store"])
}
