package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunestream/tunestream/internal/config"
	"github.com/tunestream/tunestream/internal/database"
	"github.com/tunestream/tunestream/internal/history"
	"github.com/tunestream/tunestream/internal/media"
	"github.com/tunestream/tunestream/internal/search"
	"github.com/tunestream/tunestream/internal/search/scoring"
)

type stubProvider struct {
	items []media.Item
	err   error
}

func (p *stubProvider) Search(_ context.Context, _ string, _ int) ([]media.Item, error) {
	return p.items, p.err
}

func newTestServer(t *testing.T, provider search.Provider) *Server {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	historyService := history.NewService(db.Conn(), zerolog.Nop())

	searchService, err := search.NewService(provider, scoring.DefaultConfig(), 50, zerolog.Nop())
	require.NoError(t, err)
	searchService.SetRecorder(historyService)

	cfg := config.Default()
	return NewServer(cfg, searchService, historyService, nil, nil, zerolog.Nop())
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, &stubProvider{})

	rec := doRequest(t, s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disconnected", body["upstream"], "no upstream client configured")
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t, &stubProvider{items: []media.Item{
		media.Artist{Base: media.Base{Name: "Pink Floyd"}},
		media.Artist{Base: media.Base{Name: "Pink Martini"}},
	}})

	rec := doRequest(t, s, http.MethodGet, "/api/v1/search?q=pink+floyd")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Query string `json:"query"`
		Total int    `json:"total"`
		Items []struct {
			Score float64         `json:"score"`
			Type  string          `json:"mediaType"`
			Item  json.RawMessage `json:"item"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "pink floyd", result.Query)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Items, 2)
	assert.GreaterOrEqual(t, result.Items[0].Score, result.Items[1].Score, "items must be ranked")
	assert.Equal(t, "artist", result.Items[0].Type)
}

func TestSearchEndpointMissingQuery(t *testing.T) {
	s := newTestServer(t, &stubProvider{})

	rec := doRequest(t, s, http.MethodGet, "/api/v1/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	s := newTestServer(t, &stubProvider{items: []media.Item{
		media.Artist{Base: media.Base{Name: "Ramones"}},
	}})

	// A search records an entry.
	rec := doRequest(t, s, http.MethodGet, "/api/v1/search?q=ramones")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/history")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing history.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Items, 1)
	assert.EqualValues(t, 1, listing.TotalCount)
	assert.Equal(t, "ramones", listing.Items[0].Query)

	rec = doRequest(t, s, http.MethodDelete, "/api/v1/history")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/history")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Zero(t, listing.TotalCount)
}
