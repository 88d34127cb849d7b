// Package guildapi exposes guild recommendation and plant collection
// endpoints over HTTP.
package guildapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"guildcore/docs/schema/openapi"
	"guildcore/internal/core"
	"guildcore/internal/dataset"
	"guildcore/pkg/domain"
)

// Handler provides HTTP access to guild assembly and the plant collection.
type Handler struct {
	service *core.Service
}

// NewHandler constructs the guild HTTP handler.
func NewHandler(service *core.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeError(w, http.StatusInternalServerError, "guild service not configured")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/api/v1/guilds":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleRecommend(w, r)
	case path == "/api/v1/plants":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleListPlants(w, r)
	case strings.HasPrefix(path, "/api/v1/plants/"):
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleGetPlant(w, r, strings.TrimPrefix(path, "/api/v1/plants/"))
	case path == "/api/v1/openapi.yaml":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openapi.Spec())
	case path == "/healthz":
		h.handleHealth(w, r)
	default:
		http.NotFound(w, r)
	}
}

type recommendResponse struct {
	Guild   domain.Guild   `json:"guild"`
	Profile profilePayload `json:"profile"`
}

// profilePayload is the wire form of a resolved site profile.
type profilePayload struct {
	Zone          int      `json:"zone"`
	PHBand        string   `json:"ph_band"`
	SunTolerances []string `json:"sun_tolerances"`
	SoilTexture   string   `json:"soil_texture"`
	WaterBand     string   `json:"water_band"`
	Region        string   `json:"region,omitempty"`
	IncludeTrees  bool     `json:"include_trees"`
	EdibleOnly    bool     `json:"edible_only"`
	PerennialOnly bool     `json:"perennial_only"`
	NumLayers     int      `json:"num_layers"`
}

func profileFor(profile core.SiteProfile) profilePayload {
	return profilePayload{
		Zone:          profile.Zone,
		PHBand:        string(profile.PHBand),
		SunTolerances: profile.SunTolerances,
		SoilTexture:   profile.SoilTexture,
		WaterBand:     profile.WaterBand,
		Region:        profile.Region,
		IncludeTrees:  profile.IncludeTrees,
		EdibleOnly:    profile.EdibleOnly,
		PerennialOnly: profile.PerennialOnly,
		NumLayers:     profile.NumLayers,
	}
}

func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var params core.SiteParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid site parameter payload")
		return
	}
	guild, profile, err := h.service.RecommendGuild(r.Context(), params)
	if err != nil {
		var invalid domain.InvalidParameterError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		var noCandidate domain.NoCandidateError
		if errors.As(err, &noCandidate) {
			writeError(w, http.StatusUnprocessableEntity, noCandidate.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recommendResponse{Guild: guild, Profile: profileFor(profile)})
}

func (h *Handler) handleListPlants(w http.ResponseWriter, r *http.Request) {
	plants := h.service.ListPlants(r.Context())
	switch negotiateFormat(r) {
	case "csv":
		streamCSV(w, plants)
	case "json":
		writeJSON(w, http.StatusOK, map[string]any{"plants": plants, "count": len(plants)})
	default:
		writeError(w, http.StatusNotAcceptable, "requested format not supported")
	}
}

func (h *Handler) handleGetPlant(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	plant, ok := h.service.GetPlant(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "plant not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plant": plant, "reference_url": plant.ReferenceURL()})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"plants": h.service.CountPlants(r.Context()),
	})
}

// negotiateFormat resolves the response format from the query string first,
// then the Accept header. Only json and csv are served.
func negotiateFormat(r *http.Request) string {
	wanted := strings.ToLower(r.URL.Query().Get("format"))
	if wanted == "" {
		if strings.Contains(r.Header.Get("Accept"), "text/csv") {
			wanted = "csv"
		} else {
			wanted = "json"
		}
	}
	switch wanted {
	case "csv", "json":
		return wanted
	}
	return ""
}

func streamCSV(w http.ResponseWriter, plants []domain.PlantRecord) {
	filename := fmt.Sprintf("plants-%s.csv", time.Now().UTC().Format("20060102T150405Z"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_ = dataset.EncodeCSV(w, plants)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
