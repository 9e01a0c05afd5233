package leads

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/httpx"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/importer"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/middleware"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/pipeline"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/transport"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/validation"
)

type Handler struct {
	service        *Service
	val            *validation.Validator
	log            *slog.Logger
	maxImportBytes int64
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, maxImportBytes int64) *Handler {
	if maxImportBytes <= 0 {
		maxImportBytes = 5 << 20
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		service:        service,
		val:            val,
		log:            log,
		maxImportBytes: maxImportBytes,
	}
}

// Routes mounts the lead and pipeline endpoints. importLimit guards the
// import endpoints; pass nil to leave them unthrottled.
func (h *Handler) Routes(r chi.Router, importLimit func(http.Handler) http.Handler) {
	if importLimit == nil {
		importLimit = func(next http.Handler) http.Handler { return next }
	}

	r.Get("/leads", h.List)
	r.Post("/leads", h.Create)
	r.With(importLimit).Post("/leads/import/preview", h.ImportPreview)
	r.With(importLimit).Post("/leads/import", h.ImportText)
	r.With(importLimit).Post("/leads/import/file", h.ImportFile)
	r.Get("/leads/{id}", h.Get)
	r.Patch("/leads/{id}", h.Update)
	r.Patch("/leads/{id}/status", h.UpdateStatus)
	r.Post("/leads/{id}/advance", h.Advance)
	r.Post("/leads/{id}/regress", h.Regress)
	r.Put("/leads/{id}/reminder", h.SetReminder)
	r.Delete("/leads/{id}/reminder", h.ClearReminder)
	r.Put("/leads/{id}/notes", h.SetNotes)
	r.Delete("/leads/{id}/notes", h.ClearNotes)

	r.Get("/pipeline/board", h.Board)
	r.Get("/pipeline/calendar", h.Calendar)
	r.Get("/pipeline/summary", h.Summary)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 500)
	if err != nil {
		log.Warn("leads list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Status:        r.URL.Query().Get("status"),
		ScheduledOnly: httpx.ParseBool(r.URL.Query(), "scheduled"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			log.Warn("leads list: invalid status", slog.String("status", filter.Status))
			transport.WriteError(w, http.StatusBadRequest, "invalid status", nil)
			return
		}
		httpx.WriteStoreError(w, log, "leads list", err)
		return
	}

	log.Info("leads list: ok", slog.Int("count", len(items)))
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
		log.Warn("leads create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("leads create: validation error")
		transport.WriteErrorCode(w, http.StatusBadRequest, transport.CodeValidation, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	lead, err := h.service.Create(ctx, req)
	if err != nil {
		if h.writeDomainError(w, log, "leads create", "", err) {
			return
		}
		httpx.WriteStoreError(w, log, "leads create", err)
		return
	}

	log.Info("leads create: ok", slog.String("lead_id", lead.ID))
	if lead.HasReminder() {
		h.notifyAsync(lead)
	}
	transport.WriteJSON(w, http.StatusCreated, lead)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, log, "leads get")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lead, err := h.service.Get(ctx, id)
	if err != nil {
		if h.writeDomainError(w, log, "leads get", id, err) {
			return
		}
		httpx.WriteStoreError(w, log, "leads get", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, lead)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, log, "leads update")
	if !ok {
		return
	}

	var req UpdateRequest
	if !h.decode(w, r, log, "leads update", &req) {
		return
	}

	h.mutate(w, r, log, "leads update", id, func(ctx context.Context) (models.Lead, error) {
		return h.service.UpdateFields(ctx, id, req)
	})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, log, "leads status")
	if !ok {
		return
	}

	var req StatusRequest
	if !h.decode(w, r, log, "leads status", &req) {
		return
	}

	h.mutate(w, r, log, "leads status", id, func(ctx context.Context) (models.Lead, error) {
		return h.service.UpdateStatus(ctx, id, req.Status)
	})
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, log, "leads advance")
	if !ok {
		return
	}
	h.mutate(w, r, log, "leads advance", id, func(ctx context.Context) (models.Lead, error) {
		return h.service.Advance(ctx, id)
	})
}

func (h *Handler) Regress(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, log, "leads regress")
	if !ok {
		return
	}
	h.mutate(w, r, log, "leads regress", id, func(ctx context.Context) (models.Lead, error) {
		return h.service.Regress(ctx, id)
	})
}

func (h *Handler) SetReminder(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, log, "leads reminder set")
	if !ok {
		return
	}

	var req ReminderRequest
	if !h.decode(w, r, log, "leads reminder set", &req) {
		return
	}

	lead, ok := h.mutate(w, r, log, "leads reminder set", id, func(ctx context.Context) (models.Lead, error) {
		return h.service.SetReminder(ctx, id, req.Date)
	})
	if ok {
		h.notifyAsync(lead)
	}
}

func (h *Handler) ClearReminder(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, log, "leads reminder clear")
	if !ok {
		return
	}
	h.mutate(w, r, log, "leads reminder clear", id, func(ctx context.Context) (models.Lead, error) {
		return h.service.ClearReminder(ctx, id)
	})
}

func (h *Handler) SetNotes(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, log, "leads notes set")
	if !ok {
		return
	}

	var req NotesRequest
	if !h.decode(w, r, log, "leads notes set", &req) {
		return
	}

	h.mutate(w, r, log, "leads notes set", id, func(ctx context.Context) (models.Lead, error) {
		return h.service.SetNotes(ctx, id, req.Notes)
	})
}

func (h *Handler) ClearNotes(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, log, "leads notes clear")
	if !ok {
		return
	}
	h.mutate(w, r, log, "leads notes clear", id, func(ctx context.Context) (models.Lead, error) {
		return h.service.ClearNotes(ctx, id)
	})
}

// ImportPreview parses pasted text without writing anything.
func (h *Handler) ImportPreview(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	batch, delimiter, ok := h.parseText(w, r, log, "leads import preview")
	if !ok {
		return
	}

	log.Info("leads import preview: ok", slog.Int("ready", len(batch)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ready":     len(batch),
		"items":     batch,
		"delimiter": delimiterName(delimiter),
	})
}

func (h *Handler) ImportText(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	batch, _, ok := h.parseText(w, r, log, "leads import")
	if !ok {
		return
	}
	h.store(w, r, log, "text", batch)
}

func (h *Handler) ImportFile(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImportBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			log.Warn("leads import file: too large", slog.Int64("limit", maxErr.Limit))
			transport.WriteError(w, http.StatusRequestEntityTooLarge, "file too large", nil)
			return
		}
		log.Warn("leads import file: missing file", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "missing file", nil)
		return
	}
	defer file.Close()

	batch, err := importer.ParseFile(header.Filename, file)
	if err != nil {
		h.writeImportError(w, log, "leads import file", "file", err)
		return
	}
	h.store(w, r, log, "file", batch)
}

func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	view := pipeline.ViewState{ScheduledOnly: httpx.ParseBool(r.URL.Query(), "scheduled")}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	board, err := h.service.Board(ctx, view)
	if err != nil {
		httpx.WriteStoreError(w, log, "pipeline board", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, board)
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)
	year, month, err := parseYearMonth(r, h.service.Now())
	if err != nil {
		log.Warn("pipeline calendar: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	days, err := h.service.Calendar(ctx, year, month)
	if err != nil {
		httpx.WriteStoreError(w, log, "pipeline calendar", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"year":  year,
		"month": int(month),
		"days":  days,
	})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	log := httpx.RequestLogger(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	summary, err := h.service.Summary(ctx)
	if err != nil {
		httpx.WriteStoreError(w, log, "pipeline summary", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) parseText(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) ([]models.Lead, rune, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImportBytes)

	var req ImportRequest
	if !h.decode(w, r, log, op, &req) {
		return nil, 0, false
	}

	delimiter, ok := parseDelimiter(req.Delimiter)
	if !ok {
		delimiter = importer.DetectDelimiter(req.Text)
	}

	batch, err := importer.Parse(req.Text, delimiter)
	if err != nil {
		h.writeImportError(w, log, op, "text", err)
		return nil, 0, false
	}
	return batch, delimiter, true
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request, log *slog.Logger, source string, batch []models.Lead) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	result, err := h.service.Import(ctx, batch)
	if err != nil {
		middleware.RecordImport(source, "store_error", 0)
		httpx.WriteStoreError(w, log, "leads import", err)
		return
	}

	middleware.RecordImport(source, "ok", result.Imported)
	log.Info("leads import: ok", slog.String("source", source), slog.Int("imported", result.Imported))
	transport.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) writeImportError(w http.ResponseWriter, log *slog.Logger, op, source string, err error) {
	middleware.RecordImport(source, importer.Code(err), 0)
	log.Warn(op+": rejected", slog.String("code", importer.Code(err)), slog.String("error", err.Error()))
	transport.WriteErrorCode(w, http.StatusUnprocessableEntity, importer.Code(err), importer.Message(err), nil)
}

// mutate runs a single-lead write and answers with the updated lead. It
// reports whether the write succeeded.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, log *slog.Logger, op, id string, fn func(context.Context) (models.Lead, error)) (models.Lead, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	lead, err := fn(ctx)
	if err != nil {
		if h.writeDomainError(w, log, op, id, err) {
			return models.Lead{}, false
		}
		httpx.WriteStoreError(w, log, op, err)
		return models.Lead{}, false
	}

	log.Info(op+": ok", slog.String("lead_id", lead.ID), slog.String("status", string(lead.Status)))
	transport.WriteJSON(w, http.StatusOK, lead)
	return lead, true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, log *slog.Logger, op, id string, err error) bool {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(op+": not found", slog.String("lead_id", id))
		transport.WriteErrorCode(w, http.StatusNotFound, transport.CodeNotFound, "lead not found", nil)
	case errors.Is(err, ErrInvalidStatus):
		log.Warn(op + ": invalid status")
		transport.WriteError(w, http.StatusBadRequest, "invalid status", nil)
	case errors.Is(err, ErrInvalidDate):
		log.Warn(op + ": invalid date")
		transport.WriteError(w, http.StatusBadRequest, "invalid date", nil)
	case errors.Is(err, ErrEmptyName):
		log.Warn(op + ": empty name")
		transport.WriteError(w, http.StatusBadRequest, "name must not be empty", nil)
	default:
		return false
	}
	return true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, dst interface{}) bool {
	if err := httpx.DecodeJSON(r.Body, dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			log.Warn(op+": body too large", slog.Int64("limit", maxErr.Limit))
			transport.WriteError(w, http.StatusRequestEntityTooLarge, "body too large", nil)
			return false
		}
		log.Warn(op + ": invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return false
	}
	if err := h.val.Struct(dst); err != nil {
		log.Warn(op + ": validation error")
		transport.WriteErrorCode(w, http.StatusBadRequest, transport.CodeValidation, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return false
	}
	return true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn(op + ": missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return "", false
	}
	return id, true
}

// notifyAsync sends the reminder notice outside the request. Failures are
// logged only; the reminder write has already succeeded.
func (h *Handler) notifyAsync(lead models.Lead) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.service.NotifyReminder(ctx, lead); err != nil {
			h.log.Warn("leads reminder notice: send failed", slog.String("lead_id", lead.ID), slog.String("error", err.Error()))
		}
	}()
}

func parseDelimiter(raw string) (rune, bool) {
	switch strings.ToLower(raw) {
	case ",", "comma", "csv":
		return importer.Comma, true
	case "\t", "tab", "tsv":
		return importer.Tab, true
	default:
		return 0, false
	}
}

func delimiterName(r rune) string {
	if r == importer.Tab {
		return "tab"
	}
	return "comma"
}

func parseYearMonth(r *http.Request, now time.Time) (int, time.Month, error) {
	year, month := now.Year(), now.Month()
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 9999 {
			return 0, 0, errors.New("invalid year")
		}
		year = parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, errors.New("invalid month")
		}
		month = time.Month(parsed)
	}
	return year, month, nil
}
