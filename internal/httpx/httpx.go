package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/db"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/middleware"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/transport"
)

func DecodeJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

func ValidationDetails(errs validator.ValidationErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		details[err.Field()] = err.Tag()
	}
	return details
}

func ParseLimitOffset(values url.Values, defaultLimit, maxLimit int64) (int64, int64, error) {
	limit := defaultLimit
	offset := int64(0)

	rawLimit := strings.TrimSpace(values.Get("limit"))
	if rawLimit != "" {
		parsed, err := strconv.ParseInt(rawLimit, 10, 64)
		if err != nil || parsed <= 0 {
			return 0, 0, errors.New("invalid limit")
		}
		limit = parsed
	}

	rawOffset := strings.TrimSpace(values.Get("offset"))
	if rawOffset != "" {
		parsed, err := strconv.ParseInt(rawOffset, 10, 64)
		if err != nil || parsed < 0 {
			return 0, 0, errors.New("invalid offset")
		}
		offset = parsed
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return limit, offset, nil
}

// ParseBool reads a boolean query flag; absent or malformed values are false.
func ParseBool(values url.Values, key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(values.Get(key)))
	return err == nil && b
}

// WriteStoreError reports a record store failure. Permission problems put the
// client into its locked state; everything else leaves prior state alone.
func WriteStoreError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case db.IsPermissionDenied(err):
		middleware.RecordStoreError("permission_denied")
		log.Error(op+": access locked", slog.String("error", err.Error()))
		transport.WriteErrorCode(w, http.StatusForbidden, transport.CodeAccessLocked, "access locked", nil)
	case db.IsUnavailable(err):
		middleware.RecordStoreError("unavailable")
		log.Error(op+": store unavailable", slog.String("error", err.Error()))
		transport.WriteErrorCode(w, http.StatusServiceUnavailable, transport.CodeStoreUnavailable, "store unavailable", nil)
	default:
		middleware.RecordStoreError("other")
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}

// RequestLogger scopes log to the request id, when one is set.
func RequestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	if r == nil {
		return log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return log.With(slog.String("request_id", id))
	}
	return log
}
