package server

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/stache/internal/config"
	"github.com/conneroisu/stache/internal/engine"
	"github.com/conneroisu/stache/internal/logging"
	"github.com/conneroisu/stache/internal/value"
)

func testServer(t *testing.T, sources map[string]string, data value.Value) *PreviewServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 0

	log := logging.NewLogger(&logging.Config{Level: "error", Output: io.Discard})

	return New(cfg, log, engine.New(engine.MapLoader(sources)), data)
}

func TestHandleRawRendersTemplate(t *testing.T) {
	data := value.Record(map[string]value.Value{"name": value.Text("ada")})
	srv := testServer(t, map[string]string{"page": "hi {{name}}"}, data)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/raw/page", nil)

	srv.handleRaw(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "hi ada", rec.Body.String())
}

func TestHandleRawMissingTemplate(t *testing.T) {
	srv := testServer(t, map[string]string{}, value.Record(nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/raw/ghost", nil)

	srv.handleRaw(rec, req)

	assert.Equal(t, 422, rec.Code)
}

func TestHandleRawMissingName(t *testing.T) {
	srv := testServer(t, map[string]string{}, value.Record(nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/raw/", nil)

	srv.handleRaw(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestHandleViewServesReloadShell(t *testing.T) {
	srv := testServer(t, map[string]string{"page": "x"}, value.Record(nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/view/page", nil)

	srv.handleView(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `src="/raw/page"`)
	assert.Contains(t, body, "/ws")
}

func TestSwapEngineServesNewTree(t *testing.T) {
	data := value.Record(map[string]value.Value{"name": value.Text("ada")})
	srv := testServer(t, map[string]string{"page": "old {{name}}"}, data)

	// No connected clients; the broadcast is a no-op.
	srv.SwapEngine(engine.New(engine.MapLoader{"page": "new {{name}}"}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/raw/page", nil)

	srv.handleRaw(rec, req)

	assert.Equal(t, "new ada", rec.Body.String())
}
