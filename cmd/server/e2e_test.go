package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-linkbio/pkg/app"
	"github.com/wadjakorntonsri/go-linkbio/pkg/config"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

func TestIntegration(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL:          "file:memdb1?mode=memory&cache=shared",
		JWTSecret:            "e2e-secret",
		AppEnv:               "test",
		ReconcileTimeout:     time.Second,
		ReconcileConcurrency: 2,
		AnalyticsTimezone:    "UTC",
		AnalyticsDays:        7,
	}
	a, err := app.New(cfg, zerolog.Nop())
	require.NoError(t, err)

	server := httptest.NewServer(a.Handler)
	defer server.Close()

	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	token := signToken(t, cfg.JWTSecret, "owner@example.com")

	call := func(method, path string, body any) *http.Response {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req, err := http.NewRequest(method, server.URL+path, &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		resp, err := client.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := call("GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Profile
	resp = call("POST", "/api/v1/profiles", map[string]any{
		"username":      "demo",
		"display_name":  "Demo",
		"template_name": "dark",
		"custom_colors": map[string]string{"accent": "#ff0"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var profile domain.Profile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))

	// Links
	ids := map[string]string{}
	for _, title := range []string{"Blog", "Shop", "Mail"} {
		url := "https://example.com/" + title
		if title == "Mail" {
			url = "mailto:demo@example.com"
		}
		resp = call("POST", "/api/v1/profiles/"+profile.ID+"/links", map[string]string{"title": title, "url": url, "icon": title})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var l domain.Link
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&l))
		ids[title] = l.ID
	}

	// Reorder and wait for persistence
	resp = call("POST", "/api/v1/profiles/"+profile.ID+"/links/move", map[string]int{"from": 2, "to": 0})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp = call("POST", "/api/v1/profiles/"+profile.ID+"/links/sync", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := a.Repo.List(context.Background(), profile.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, ids["Mail"], stored[0].ID)
	assert.Equal(t, ids["Blog"], stored[1].ID)
	assert.Equal(t, ids["Shop"], stored[2].ID)

	// Public page
	resp = call("GET", "/p/demo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page domain.PublicPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, "dark", page.Template)
	assert.Equal(t, "#ff0", page.Palette.Accent)
	assert.NotEmpty(t, page.Palette.Background)
	require.Len(t, page.Links, 3)
	assert.Equal(t, domain.IconMail, page.Links[0].Icon)
	assert.Equal(t, domain.IconLink, page.Links[1].Icon)

	// Redirect
	resp = call("GET", "/go/"+ids["Blog"], nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://example.com/Blog", resp.Header.Get("Location"))

	resp = call("GET", "/go/"+ids["Blog"]+"?no_stat=1", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	a.Clicks.Wait()

	// Stats
	resp = call("GET", "/api/v1/profiles/"+profile.ID+"/analytics?days=7", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary domain.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, int64(1), summary.TotalClicks)
	require.Len(t, summary.Daily, 1)
	assert.Equal(t, int64(1), summary.Daily[0].Count)

	require.NoError(t, a.Shutdown(context.Background()))
}

func signToken(t *testing.T, secret, email string) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}
