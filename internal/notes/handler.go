package notes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/httpx"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/transport"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/notes", h.List)
	r.Post("/notes", h.Create)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("notes list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, ListFilter{Query: r.URL.Query().Get("q")}, limit, offset)
	if err != nil {
		httpx.WriteStoreError(w, log, "notes list", err)
		return
	}

	log.Info("notes list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("notes create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("notes create: validation error")
		transport.WriteErrorCode(w, http.StatusBadRequest, transport.CodeValidation, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	note, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			log.Warn("notes create: empty note")
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		httpx.WriteStoreError(w, log, "notes create", err)
		return
	}

	log.Info("notes create: ok", slog.String("note_id", note.ID))
	transport.WriteJSON(w, http.StatusCreated, note)
}
