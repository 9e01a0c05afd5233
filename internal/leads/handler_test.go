package leads

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/db"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/transport"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, repo *memoryRepository) http.Handler {
	t.Helper()
	svc := newTestService(repo, nil, nil)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(svc, validation.New(), log, 1<<20)

	r := chi.NewRouter()
	handler.Routes(r, nil)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) transport.ErrorResponse {
	t.Helper()
	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandlerCreateAndGet(t *testing.T) {
	router := setupRouter(t, newMemoryRepository())

	w := doJSON(t, router, http.MethodPost, "/leads", map[string]interface{}{"name": "Acme", "email": "ops@acme.test"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.StatusNew, created.Status)

	w = doJSON(t, router, http.MethodGet, "/leads/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/leads/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, transport.CodeNotFound, decodeError(t, w).Code)
}

func TestHandlerCreateValidation(t *testing.T) {
	router := setupRouter(t, newMemoryRepository())

	w := doJSON(t, router, http.MethodPost, "/leads", map[string]interface{}{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, transport.CodeValidation, resp.Code)
	assert.Equal(t, "required", resp.Details["Name"])
	assert.Equal(t, "email", resp.Details["Email"])

	w = doJSON(t, router, http.MethodPost, "/leads", map[string]interface{}{"name": "A", "unknown": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerCreateRejectsBlankName(t *testing.T) {
	repo := newMemoryRepository()
	router := setupRouter(t, repo)

	w := doJSON(t, router, http.MethodPost, "/leads", map[string]interface{}{"name": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name must not be empty", decodeError(t, w).Error)
	assert.Empty(t, repo.leads)
}

func TestHandlerStatusIsCaseInsensitive(t *testing.T) {
	repo := newMemoryRepository(seedLead("a", models.StatusNew, "", fixedNow))
	router := setupRouter(t, repo)

	w := doJSON(t, router, http.MethodPatch, "/leads/a/status", StatusRequest{Status: " Qualified "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pipelineStatus":"qualified"`)

	w = doJSON(t, router, http.MethodPost, "/leads/import/preview", ImportRequest{Text: "Name\tCity\nAcme\tParis", Delimiter: "TAB"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"delimiter":"tab"`)
}

func TestHandlerNilLoggerSurvivesNotifyFailure(t *testing.T) {
	repo := newMemoryRepository(seedLead("a", models.StatusNew, "", fixedNow))
	notifier := new(mockNotifier)
	done := make(chan struct{})
	notifier.On("SendReminderNotice", mock.Anything, mock.Anything).
		Return("", errors.New("smtp down")).
		Run(func(mock.Arguments) { close(done) }).
		Once()

	handler := NewHandler(newTestService(repo, nil, notifier), validation.New(), nil, 0)
	require.NotNil(t, handler.log)

	r := chi.NewRouter()
	handler.Routes(r, nil)

	w := doJSON(t, r, http.MethodPut, "/leads/a/reminder", ReminderRequest{Date: "2024-03-22"})
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reminder notice was not sent")
	}
	// let the goroutine log the failure before the test exits
	time.Sleep(20 * time.Millisecond)
	notifier.AssertExpectations(t)
}

func TestHandlerStatusTransitions(t *testing.T) {
	repo := newMemoryRepository(seedLead("a", models.StatusNew, "", fixedNow))
	router := setupRouter(t, repo)

	w := doJSON(t, router, http.MethodPost, "/leads/a/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"analyzed"`)

	w = doJSON(t, router, http.MethodPatch, "/leads/a/status", StatusRequest{Status: "qualified"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pipelineStatus":"qualified"`)

	w = doJSON(t, router, http.MethodPatch, "/leads/a/status", StatusRequest{Status: "won"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerReminderAndNotes(t *testing.T) {
	repo := newMemoryRepository(seedLead("a", models.StatusNew, "", fixedNow))
	router := setupRouter(t, repo)

	w := doJSON(t, router, http.MethodPut, "/leads/a/reminder", ReminderRequest{Date: "2024-03-22"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"followUpDate":"2024-03-22"`)

	w = doJSON(t, router, http.MethodPut, "/leads/a/reminder", ReminderRequest{Date: "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/leads/a/reminder", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "followUpDate")

	w = doJSON(t, router, http.MethodPut, "/leads/a/notes", NotesRequest{Notes: "ask for the CFO"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ask for the CFO")

	w = doJSON(t, router, http.MethodDelete, "/leads/a/notes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"notes"`)
}

func TestHandlerImportPreviewDoesNotWrite(t *testing.T) {
	repo := newMemoryRepository()
	router := setupRouter(t, repo)

	w := doJSON(t, router, http.MethodPost, "/leads/import/preview", ImportRequest{Text: "Company\tCity\nAcme\tParis\n\tNowhere"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Ready     int           `json:"ready"`
		Items     []models.Lead `json:"items"`
		Delimiter string        `json:"delimiter"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Ready)
	assert.Equal(t, "tab", resp.Delimiter)
	assert.Equal(t, "Paris", resp.Items[0].Location)
	assert.Empty(t, repo.leads)
}

func TestHandlerImportText(t *testing.T) {
	repo := newMemoryRepository()
	router := setupRouter(t, repo)

	w := doJSON(t, router, http.MethodPost, "/leads/import", ImportRequest{Text: "Name,Email\nAcme,a@acme.test\nGlobex,g@globex.test", Delimiter: "comma"})
	require.Equal(t, http.StatusCreated, w.Code)

	var result ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, ImportResult{Ready: 2, Imported: 2}, result)
	assert.Len(t, repo.leads, 2)
}

func TestHandlerImportRejections(t *testing.T) {
	tests := []struct {
		name string
		text string
		code string
		msg  string
	}{
		{"header only", "Name,Email", "empty_or_header_missing", "File appears to be empty or missing headers."},
		{"no name column", "Email,Phone\na@b.test,1", "missing_name_column", "Could not find a 'Name' or 'Company' column. Please check your headers."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepository()
			router := setupRouter(t, repo)

			w := doJSON(t, router, http.MethodPost, "/leads/import", ImportRequest{Text: tt.text})
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.msg, resp.Error)
			assert.Empty(t, repo.leads)
		})
	}
}

func TestHandlerImportFile(t *testing.T) {
	repo := newMemoryRepository()
	router := setupRouter(t, repo)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "leads.tsv")
	require.NoError(t, err)
	_, err = io.WriteString(part, "Business Name\tPhone\nAcme\t555-0100\n")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/leads/import/file", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.leads, 1)
	for _, lead := range repo.leads {
		assert.Equal(t, "Acme", lead.Name)
		assert.Equal(t, "555-0100", lead.Phone)
	}
}

func TestHandlerImportFileMissing(t *testing.T) {
	router := setupRouter(t, newMemoryRepository())
	req := httptest.NewRequest(http.MethodPost, "/leads/import/file", strings.NewReader(""))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerStoreErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"permission", fmt.Errorf("%w: not authorized", db.ErrPermissionDenied), http.StatusForbidden, transport.CodeAccessLocked},
		{"unavailable", fmt.Errorf("%w: timeout", db.ErrUnavailable), http.StatusServiceUnavailable, transport.CodeStoreUnavailable},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepository()
			repo.err = tt.err
			router := setupRouter(t, repo)

			w := doJSON(t, router, http.MethodGet, "/pipeline/board", nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)

			w = doJSON(t, router, http.MethodPost, "/leads/import", ImportRequest{Text: "Name\nAcme"})
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandlerPipelineViews(t *testing.T) {
	repo := newMemoryRepository(
		seedLead("a", models.StatusNew, "2024-03-14", fixedNow.Add(-time.Hour)),
		seedLead("b", models.StatusContacted, "", fixedNow),
	)
	router := setupRouter(t, repo)

	w := doJSON(t, router, http.MethodGet, "/pipeline/board?scheduled=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"Overdue"`)
	assert.NotContains(t, w.Body.String(), `"id":"b"`)

	w = doJSON(t, router, http.MethodGet, "/pipeline/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"overdue":1`)

	w = doJSON(t, router, http.MethodGet, "/pipeline/calendar?year=2024&month=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cal struct {
		Year  int               `json:"year"`
		Month int               `json:"month"`
		Days  []json.RawMessage `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cal))
	assert.Equal(t, 2024, cal.Year)
	assert.Equal(t, 3, cal.Month)
	assert.Len(t, cal.Days, 42)

	w = doJSON(t, router, http.MethodGet, "/pipeline/calendar?month=13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
