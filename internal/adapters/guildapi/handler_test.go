package guildapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guildcore/internal/core"
	"guildcore/internal/infra/persistence/memory"
	"guildcore/pkg/domain"
)

func sitePlant(genus, species string, habits ...string) domain.PlantRecord {
	traits := domain.TraitBag{
		domain.SunFull:                true,
		domain.TraitMediumSoil:        true,
		domain.WaterMesic:             true,
		string(domain.PHSlightlyAcid): true,
	}
	for _, habit := range habits {
		traits[habit] = true
	}
	return domain.PlantRecord{
		Genus:    genus,
		Species:  species,
		Duration: domain.DurationPerennial,
		MinZone:  3,
		Traits:   traits,
	}
}

func newTestHandler(t *testing.T, plants ...domain.PlantRecord) (*Handler, *core.Service) {
	t.Helper()
	service := core.NewService(memory.NewStore(core.DefaultRulesEngine()))
	if len(plants) > 0 {
		if _, _, err := service.ImportPlants(context.Background(), plants); err != nil {
			t.Fatalf("seed plants: %v", err)
		}
	}
	return NewHandler(service), service
}

func guildFixture() []domain.PlantRecord {
	fixer := sitePlant("Trifolium", "repens", domain.TraitGroundcover)
	fixer.Traits[domain.TraitNitrogenFixer] = true
	return []domain.PlantRecord{
		sitePlant("Corylus", "americana", domain.TraitShrub),
		sitePlant("Symphytum", "officinale", domain.TraitHerbForb),
		sitePlant("Vitis", "riparia", domain.TraitVine),
		sitePlant("Asarum", "canadense", domain.TraitRhizome),
		fixer,
	}
}

func postGuild(t *testing.T, handler http.Handler, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/guilds", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRecommendGuildEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t, guildFixture()...)
	layers := 2
	body, _ := json.Marshal(core.SiteParams{
		Zone:          7,
		PH:            6.5,
		Sun:           domain.SunFull,
		SoilTexture:   "loam",
		Water:         domain.WaterMesic,
		PerennialOnly: true,
		NumLayers:     &layers,
	})
	rec := postGuild(t, handler, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Guild   domain.Guild `json:"guild"`
		Profile struct {
			Zone      int    `json:"zone"`
			PHBand    string `json:"ph_band"`
			NumLayers int    `json:"num_layers"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Guild.HasLayer(domain.LayerGroundcover) {
		t.Fatalf("guild missing groundcover: %+v", resp.Guild.Layers())
	}
	for _, entry := range resp.Guild.Entries {
		if entry.ReferenceURL == "" {
			t.Fatalf("entry missing reference url: %+v", entry)
		}
	}
	if resp.Profile.Zone != 7 || resp.Profile.PHBand != string(domain.PHSlightlyAcid) || resp.Profile.NumLayers != 2 {
		t.Fatalf("unexpected profile %+v", resp.Profile)
	}
}

func TestRecommendGuildInvalidParameter(t *testing.T) {
	handler, _ := newTestHandler(t, guildFixture()...)
	rec := postGuild(t, handler, `{"zone":0,"ph":6.5,"sun":"full sun","soil_texture":"loam","water":"mesic"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "zone") {
		t.Fatalf("error should name the parameter: %s", rec.Body.String())
	}
}

func TestRecommendGuildNoCandidates(t *testing.T) {
	handler, _ := newTestHandler(t)
	rec := postGuild(t, handler, `{"zone":7,"ph":6.5,"sun":"full sun","soil_texture":"loam","water":"mesic","num_layers":2}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRecommendGuildMalformedBody(t *testing.T) {
	handler, _ := newTestHandler(t)
	rec := postGuild(t, handler, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecommendGuildMethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/guilds", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestListPlantsJSON(t *testing.T) {
	handler, _ := newTestHandler(t, guildFixture()...)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Plants []domain.PlantRecord `json:"plants"`
		Count  int                  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 5 || len(resp.Plants) != 5 {
		t.Fatalf("expected 5 plants, got %d", resp.Count)
	}
}

func TestListPlantsCSV(t *testing.T) {
	handler, _ := newTestHandler(t, guildFixture()...)
	for _, target := range []string{"/api/v1/plants?format=csv", "/api/v1/plants"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if !strings.Contains(target, "format") {
			req.Header.Set("Accept", "text/csv")
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
			t.Fatalf("%s: expected text/csv, got %s", target, ct)
		}
		if !bytes.Contains(rec.Body.Bytes(), []byte("genus,species")) {
			t.Fatalf("%s: missing csv header: %s", target, rec.Body.String()[:60])
		}
	}
}

func TestListPlantsUnsupportedFormat(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants?format=xml", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotAcceptable {
		t.Fatalf("expected 406, got %d", rec.Code)
	}
}

func TestGetPlantByID(t *testing.T) {
	handler, service := newTestHandler(t, guildFixture()...)
	plants := service.ListPlants(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants/"+plants[0].ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pfaf.org") {
		t.Fatalf("expected reference url in payload: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/plants/does-not-exist", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestHandler(t, guildFixture()...)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Status string `json:"status"`
		Plants int    `json:"plants"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Plants != 5 {
		t.Fatalf("unexpected health payload %+v", resp)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Fatalf("unexpected content type %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "guildcore API") {
		t.Fatalf("unexpected spec body")
	}
}

func TestUnknownPath(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestNilServiceGuarded(t *testing.T) {
	handler := &Handler{}
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
