package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Plantroom/internal/calc/heating"
	"Plantroom/internal/config"
	"Plantroom/internal/metrics"
	"Plantroom/internal/refdata"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	r := mux.NewRouter()
	require.NoError(t, HandleList(r, cfg, refdata.Default(), metrics.New()))
	return CORS(r)
}

func TestRoutesWithAuthDisabled(t *testing.T) {
	h := newServer(t, &config.Config{AuthDisabled: true, RateLimit: 100, RateBurst: 100})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tools/calorifier",
		strings.NewReader(`{"mode":"coil_size","initial_temp_c":20,"final_temp_c":80,"vessel_volume_l":1000,"reheat_time_min":25}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res heating.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, 167.2, res.CoilKW, 1e-9)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/refdata", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var ref refdata.Set
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ref))
	assert.NotEmpty(t, ref.Appliances)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `route="/api/tools/calorifier"`)
}

func TestToolsRequireSession(t *testing.T) {
	h := newServer(t, &config.Config{TokenKey: "k", RateLimit: 100, RateBurst: 100})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tools/duct", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/tools/duct", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleListRejectsBadEngineers(t *testing.T) {
	err := HandleList(mux.NewRouter(), &config.Config{Engineers: []string{"nohash"}}, refdata.Default(), metrics.New())
	assert.Error(t, err)
}
