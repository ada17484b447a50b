package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piquique/daybook/internal/config"
	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
	"github.com/piquique/daybook/internal/narrative"
	"github.com/piquique/daybook/internal/snapshot"
	"github.com/piquique/daybook/internal/store/sqlite"
	"github.com/piquique/daybook/internal/unify"
)

type stubGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return g.reply, g.err
}

// newTestServer stands up the full router over a temp workspace: a calendar
// export with one event and a pre-written snapshot covering it.
func newTestServer(t *testing.T, gen Generator) (*httptest.Server, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		CalendarCSV:  filepath.Join(dir, "eventos_limpios.csv"),
		DocumentsCSV: filepath.Join(dir, "documentos_paperless.csv"),
		HealthJSON:   filepath.Join(dir, "health_data.json"),
		PhotosRoot:   filepath.Join(dir, "fotos"),
		SnapshotCSV:  filepath.Join(dir, "datos_unificados.csv"),
	}

	calendar := "Titulo,Ubicacion,Descripcion,Dia,Inicio,Fin\n" +
		"Dentista,Clinica,revision,07-11-2025,10:00,11:00\n"
	require.NoError(t, os.WriteFile(cfg.CalendarCSV, []byte(calendar), 0o644))

	rows := unify.Rows(unify.Inputs{
		Events: map[dates.Day][]model.Event{
			"2025-11-07": {{Title: "Dentista", Location: "Clinica", Description: "revision", Start: "10:00", End: "11:00"}},
		},
		Health: map[dates.Day]model.HealthDay{
			"2025-11-07": {Steps: 8542, DistanceKm: 6.34},
		},
	})
	require.NoError(t, unify.WriteSnapshot(cfg.SnapshotCSV, rows))

	snap, err := snapshot.Open(cfg.SnapshotCSV)
	require.NoError(t, err)

	st, err := sqlite.New(filepath.Join(dir, "daybook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	srv := httptest.NewServer(NewRouter(NewHandler(cfg, snap, st, gen)))
	t.Cleanup(srv.Close)
	return srv, cfg
}

func getJSON(t *testing.T, url string, wantStatus int) map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, wantStatus, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestStatus(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := getJSON(t, srv.URL+"/", http.StatusOK)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "daybook", body["service"])
	assert.Equal(t, float64(1), body["days"])
}

func TestLiveness(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := getJSON(t, srv.URL+"/api/health", http.StatusOK)
	assert.Equal(t, "healthy", body["status"])
}

func TestListDays(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := getJSON(t, srv.URL+"/v0/days", http.StatusOK)
	assert.Equal(t, []any{"2025-11-07"}, body["days"])
}

func TestDayView(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := getJSON(t, srv.URL+"/v0/days/2025-11-07", http.StatusOK)
	assert.Equal(t, "2025-11-07", body["fecha"])

	health, ok := body["salud"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(8542), health["pasos"])
}

func TestDayViewUnknownDate(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	getJSON(t, srv.URL+"/v0/days/1999-01-01", http.StatusNotFound)
}

func TestDayViewMalformedDate(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	getJSON(t, srv.URL+"/v0/days/07-11-2025", http.StatusBadRequest)
}

func TestTimeline(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := getJSON(t, srv.URL+"/v0/days/2025-11-07/timeline", http.StatusOK)

	tl, ok := body["timeline"].([]any)
	require.True(t, ok)
	require.Len(t, tl, 1)
	entry := tl[0].(map[string]any)
	assert.Contains(t, entry["texto"], "Dentista")
}

func TestReloadPicksUpNewSnapshot(t *testing.T) {
	srv, cfg := newTestServer(t, nil)

	rows := unify.Rows(unify.Inputs{
		Events: map[dates.Day][]model.Event{
			"2025-11-07": {{Title: "Dentista"}},
			"2025-11-08": {{Title: "Nuevo"}},
		},
	})
	require.NoError(t, unify.WriteSnapshot(cfg.SnapshotCSV, rows))

	resp, err := http.Post(srv.URL+"/v0/reload", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := getJSON(t, srv.URL+"/v0/days", http.StatusOK)
	assert.Equal(t, []any{"2025-11-07", "2025-11-08"}, body["days"])
}

func TestRunsEmptyStore(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := getJSON(t, srv.URL+"/v0/runs", http.StatusOK)
	assert.Empty(t, body["runs"])
}

func TestDiarioNarratesDay(t *testing.T) {
	gen := &stubGenerator{reply: "El día 2025-11-07 fuiste al dentista."}
	srv, _ := newTestServer(t, gen)

	body := getJSON(t, srv.URL+"/diario/2025-11-07", http.StatusOK)
	assert.Equal(t, "2025-11-07", body["fecha"])
	assert.Equal(t, "El día 2025-11-07 fuiste al dentista.", body["resumen"])

	assert.Contains(t, gen.lastPrompt, "Dentista")
	assert.True(t, strings.Contains(gen.lastPrompt, "SEGUNDA PERSONA"))
}

func TestDiarioEmptyDaySkipsModel(t *testing.T) {
	gen := &stubGenerator{reply: "should not be called"}
	srv, _ := newTestServer(t, gen)

	body := getJSON(t, srv.URL+"/diario/1999-01-01", http.StatusOK)
	assert.Equal(t, narrative.EmptyDayMessage, body["resumen"])
	assert.Empty(t, gen.lastPrompt)
}

func TestDiarioGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model offline")}
	srv, _ := newTestServer(t, gen)
	getJSON(t, srv.URL+"/diario/2025-11-07", http.StatusInternalServerError)
}
