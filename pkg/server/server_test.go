package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/genposter/pkg/cache"
	"github.com/matzehuels/genposter/pkg/gallery"
	"github.com/matzehuels/genposter/pkg/pipeline"
	"github.com/matzehuels/genposter/pkg/render/sink"
)

// smallPoster keeps renders fast: 200x150 logical pixels at 100 dpi.
const smallPoster = `{
	"palette": "pastel",
	"preset": "minimal",
	"layers": 3,
	"wobble": {"min": 0, "max": 0.1},
	"radius": {"min": 10, "max": 50},
	"seed": 42,
	"size": {"width": 200, "height": 150},
	"background": "#ffffff",
	"dpi": 100
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.New(&bytes.Buffer{})
	return New(pipeline.NewRunner(c, nil, logger), gallery.NewMemoryStore(10), logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func create(t *testing.T, s *Server) posterResponse {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/posters", smallPoster)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out posterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRequestIDPropagates(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/posters/missing", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "abc-123", body.RequestID)
}

func TestPalette(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/palettes/vivid?count=8", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body paletteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Colors, 8)
	for _, c := range body.Colors {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c)
	}

	a := do(t, s, http.MethodGet, "/api/palettes/random?seed=7", "").Body.String()
	b := do(t, s, http.MethodGet, "/api/palettes/random?seed=7", "").Body.String()
	assert.Equal(t, a, b, "random palettes are seeded")
}

func TestPaletteErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		target string
	}{
		{"unknown mode", "/api/palettes/sepia"},
		{"zero count", "/api/palettes/pastel?count=0"},
		{"huge count", "/api/palettes/pastel?count=1000"},
		{"bad seed", "/api/palettes/random?seed=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "INVALID_CONFIGURATION")
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	s := newTestServer(t)
	created := create(t, s)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 200, created.Width)
	assert.Equal(t, 150, created.Height)
	assert.Equal(t, 6, created.Blobs)
	assert.Equal(t, int64(42), created.Config.Seed)
	assert.Equal(t, "/api/posters/"+created.ID+"/preview", created.Links["preview"])

	rec := do(t, s, http.MethodGet, "/api/posters/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got posterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Hash, got.Hash)
}

func TestCreateInvalid(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		body string
		code string
	}{
		{"inverted radius", `{"radius": {"min": 50, "max": 10}}`, "INVALID_CONFIGURATION"},
		{"zero layers", `{"layers": 0}`, "INVALID_CONFIGURATION"},
		{"huge layer count", `{"layers": 100000000}`, "INVALID_CONFIGURATION"},
		{"huge point count", `{"points": 1000000000}`, "INVALID_CONFIGURATION"},
		{"unknown field", `{"colour": "red"}`, "INVALID_FORMAT"},
		{"not json", `layers = 3`, "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/posters", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}

	list := do(t, s, http.MethodGet, "/api/posters", "")
	assert.JSONEq(t, `[]`, list.Body.String(), "failed renders are not recorded")
}

func TestList(t *testing.T) {
	s := newTestServer(t)
	first := create(t, s)
	second := create(t, s)

	rec := do(t, s, http.MethodGet, "/api/posters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out []posterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, second.ID, out[0].ID)
	assert.Equal(t, first.ID, out[1].ID)

	rec = do(t, s, http.MethodGet, "/api/posters?limit=1", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 1)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{
		"/api/posters/nope",
		"/api/posters/nope/download",
		"/api/posters/nope/preview",
	} {
		rec := do(t, s, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "NOT_FOUND", target)
	}
}

func TestDownload(t *testing.T) {
	s := newTestServer(t)
	created := create(t, s)
	base := "/api/posters/" + created.ID + "/download"

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"png", "image/png", "\x89PNG"},
		{"svg", "image/svg+xml", "<?xml"},
		{"pdf", "application/pdf", "%PDF"},
		{"json", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, base+"?format="+tt.format, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "poster_")
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "."+tt.format)
			assert.True(t, strings.HasPrefix(rec.Body.String(), tt.prefix))
		})
	}

	// Default format is PNG and equal configurations give equal bytes.
	a := do(t, s, http.MethodGet, base, "")
	b := do(t, s, http.MethodGet, base+"?format=png", "")
	assert.Equal(t, a.Body.Bytes(), b.Body.Bytes())

	rec := do(t, s, http.MethodGet, base+"?format=gif", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreview(t *testing.T) {
	s := newTestServer(t)
	created := create(t, s)

	rec := do(t, s, http.MethodGet, "/api/posters/"+created.ID+"/preview?width=100", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	thumb, err := sink.Thumbnail(rec.Body.Bytes(), 1000)
	require.NoError(t, err)
	assert.NotEmpty(t, thumb)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)
	empty := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, empty.Code)
	assert.Contains(t, empty.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, empty.Body.String(), "No posters yet.")
	assert.Contains(t, empty.Body.String(), `<option value="noisetouch"`)

	created := create(t, s)
	rec := do(t, s, http.MethodGet, "/", "")
	assert.Contains(t, rec.Body.String(), "/api/posters/"+created.ID+"/preview")
	assert.Contains(t, rec.Body.String(), "/api/posters/"+created.ID+"/download?format=pdf")
}

func TestListInvalidLimit(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/posters?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
