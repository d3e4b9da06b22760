package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/appgrid/catalogd/internal/catalog"
)

// CatalogService is the surface the transport boundary needs from the
// request router.
type CatalogService interface {
	Handle(ctx context.Context, req catalog.Request) (json.RawMessage, error)
	CacheEntries(ctx context.Context) (int64, error)
}

// Handler is the thin HTTP adapter over the catalog service. Every catalog
// response, including failures and preflights, carries permissive CORS
// headers so a browser client can always read the body.
type Handler struct {
	service CatalogService
	logger  *slog.Logger
}

// NewHandler wires the transport boundary to the catalog service.
func NewHandler(service CatalogService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger.With(slog.String("component", "http")),
	}
}

// ServeCatalog answers the single externally visible endpoint: a JSON body
// selecting the search or details action. Success is a 200 with the result
// envelope; every failure is a 500 with {"error": message}. Validation
// failures are not distinguished by status code.
func (h *Handler) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		h.writeError(w, fmt.Sprintf("method %s not supported", r.Method))
		return
	}

	var req catalog.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid JSON body")
		return
	}

	payload, err := h.service.Handle(r.Context(), req)
	if err != nil {
		h.writeError(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("catalog response write failed", slog.Any("error", err))
	}
}

// ServeHealth reports service liveness along with the cache entry count.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	cacheEntries, err := h.service.CacheEntries(r.Context())
	if err != nil {
		h.logger.Error("cache size query failed", slog.Any("error", err))
		cacheEntries = 0
	}
	status := map[string]any{
		"status":       "ok",
		"cacheEntries": cacheEntries,
		"observedAt":   time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.Error("health encode failed", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("error response encode failed", slog.Any("error", err))
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	header := w.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "authorization, content-type")
}
