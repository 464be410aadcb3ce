// Package handlers exposes the enrichment pipeline over a small JSON API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sudhirvr/keyworder/internal/backends"
	"github.com/sudhirvr/keyworder/internal/enrich"
	"github.com/sudhirvr/keyworder/internal/library"
	"github.com/sudhirvr/keyworder/internal/models"
	"github.com/sudhirvr/keyworder/internal/storage"
)

type Handler struct {
	library  library.Store
	runStore *storage.RunStore
}

func New(lib library.Store) *Handler {
	return &Handler{
		library:  lib,
		runStore: storage.New(),
	}
}

type enrichRequest struct {
	ItemIDs     []int64 `json:"item_ids"`
	All         bool    `json:"all"`
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	MaxKeywords int     `json:"max_keywords"`
	PauseMS     int     `json:"pause_ms"`
	CapChars    int     `json:"cap_chars"`
	TagScope    string  `json:"tag_scope"`
}

// HandleEnrich runs one enrichment batch synchronously and returns the
// stored run.
func (h *Handler) HandleEnrich(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ids := req.ItemIDs
	if req.All {
		var err error
		ids, err = h.library.AllRecordIDs(r.Context())
		if err != nil {
			h.writeError(w, "Failed to list records: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	provider, providerName, err := backends.Select(req.Provider)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	model := req.Model
	if model == "" {
		model = backends.DefaultModel(providerName)
	}

	svc := enrich.NewService(h.library, provider, enrich.Config{
		Provider:    providerName,
		Model:       model,
		APIKey:      backends.APIKey(providerName),
		MaxKeywords: req.MaxKeywords,
		Pause:       time.Duration(req.PauseMS) * time.Millisecond,
		CapChars:    req.CapChars,
		TagScope:    req.TagScope,
	})

	slog.Info("Starting enrichment run", "provider", providerName, "model", model, "items", len(ids))
	result, err := svc.Run(r.Context(), ids)
	if err != nil {
		h.writeError(w, "Enrichment failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	run := &models.EnrichmentRun{
		ID:        uuid.NewString(),
		Result:    result,
		CreatedAt: time.Now(),
	}
	h.runStore.Set(run.ID, run)
	h.writeJSON(w, run)
}

// HandleRuns lists completed runs, newest first.
func (h *Handler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.runStore.GetAll())
}

// HandleRunDetail returns a single run by ID.
func (h *Handler) HandleRunDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	run, exists := h.runStore.Get(runID)
	if !exists {
		h.writeError(w, "Run not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, run)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
