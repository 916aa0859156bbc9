package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhub-app/clubhub/internal/testutil"
)

// Setting up the engine must not panic on the test configuration; cors.New
// refuses origins that lack an http:// or https:// scheme, so the frontend
// URL in TestConfig has to be a full URL.
func TestSetupRoutes_TestConfigServes(t *testing.T) {
	r, _, _ := testutil.NewServer(t)

	w := testutil.Do(t, r, http.MethodGet, "/ping", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestSetupRoutes_CORSPreflight(t *testing.T) {
	r, _, cfg := testutil.NewServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/clubs", nil)
	req.Header.Set("Origin", cfg.App.FrontendURL)
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, cfg.App.FrontendURL, w.Header().Get("Access-Control-Allow-Origin"))
}
