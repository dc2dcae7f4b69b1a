package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/CareerRAG/internal/api"
	"github.com/akolanti/CareerRAG/internal/data/registry"
	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/go-chi/chi/v5"
)

// mockRagService implements rag.Service
type mockRagService struct {
	OnAnswer func(ctx context.Context, request api.AskRequest) (string, int)
	OnDelete func(ctx context.Context, university string) error
}

func (m *mockRagService) Answer(ctx context.Context, request api.AskRequest) (string, int) {
	if m.OnAnswer != nil {
		return m.OnAnswer(ctx, request)
	}
	return "mock answer", http.StatusOK
}

func (m *mockRagService) DeleteUniversity(ctx context.Context, university string) error {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, university)
	}
	return nil
}

// InitHandlers is once-per-process, so every test shares this registry and
// swaps behavior on the mock service.
var (
	testRegistry = registry.InitRegistry()
	testService  = &mockRagService{}
)

func setup() {
	InitHandlers(testRegistry, testService)
	testService.OnAnswer = nil
	testService.OnDelete = nil
}

func csvBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(content))
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func csvRow(uniName, content string) string {
	return strings.Join([]string{
		"1", "7", uniName, "0", "dept", "desc", "url", "c", "m", "5", "tags", content,
	}, ",")
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	return resp.Error
}

func TestUploadUniversityHandler_NoFileField(t *testing.T) {
	setup()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("other", "value")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/universities/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	UploadUniversityHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); got != "No file provided" {
		t.Errorf("error = %q", got)
	}
}

func TestUploadUniversityHandler_NotMultipart(t *testing.T) {
	setup()

	req := httptest.NewRequest(http.MethodPost, "/api/universities/upload", strings.NewReader("plain body"))
	rec := httptest.NewRecorder()

	UploadUniversityHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); got != "File too large or bad request" {
		t.Errorf("error = %q", got)
	}
}

func TestUploadUniversityHandler_RejectsNonCSV(t *testing.T) {
	setup()

	body, contentType := csvBody(t, "notes.txt", "whatever")
	req := httptest.NewRequest(http.MethodPost, "/api/universities/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	UploadUniversityHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); got != "Only CSV files are allowed" {
		t.Errorf("error = %q", got)
	}
}

func TestUploadUniversityHandler_InvalidStructure(t *testing.T) {
	setup()

	body, contentType := csvBody(t, "bad.csv", "only,three,columns\n")
	req := httptest.NewRequest(http.MethodPost, "/api/universities/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	UploadUniversityHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	got := decodeError(t, rec)
	if !strings.HasPrefix(got, "Invalid CSV structure: ") {
		t.Errorf("error = %q", got)
	}
}

func TestUploadUniversityHandler_SuccessThenDuplicate(t *testing.T) {
	setup()

	content := csvRow("Upload University", "row zero") + "\n" + csvRow("Upload University", "row one") + "\n"

	body, contentType := csvBody(t, "upload.csv", content)
	req := httptest.NewRequest(http.MethodPost, "/api/universities/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	UploadUniversityHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp api.UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.University.Name != "Upload University" || resp.University.DocumentCount != 2 {
		t.Errorf("university = %+v", resp.University)
	}
	if resp.Message != "University 'Upload University' uploaded successfully" {
		t.Errorf("message = %q", resp.Message)
	}

	// the same name again is a conflict
	body, contentType = csvBody(t, "upload.csv", content)
	req = httptest.NewRequest(http.MethodPost, "/api/universities/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()

	UploadUniversityHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); !strings.Contains(got, "already exists") {
		t.Errorf("error = %q", got)
	}
}

func TestListUniversitiesHandler(t *testing.T) {
	setup()

	content := csvRow("List University", "a") + "\n" + csvRow("List University", "b") + "\n"
	body, contentType := csvBody(t, "list.csv", content)
	req := httptest.NewRequest(http.MethodPost, "/api/universities/upload", body)
	req.Header.Set("Content-Type", contentType)
	UploadUniversityHandler(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	ListUniversitiesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/universities", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp api.UniversityListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}

	found := false
	for _, u := range resp.Universities {
		if u.Name == "List University" && u.DocumentCount == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("List University missing from %+v", resp.Universities)
	}
}

func deleteVia(t *testing.T, name string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.Delete("/api/universities/{name}", DeleteUniversityHandler)

	req := httptest.NewRequest(http.MethodDelete, "/api/universities/"+name, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDeleteUniversityHandler(t *testing.T) {
	setup()
	var requested string
	testService.OnDelete = func(ctx context.Context, university string) error {
		requested = university
		return nil
	}

	rec := deleteVia(t, "Delete%20University")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if requested != "Delete University" {
		t.Errorf("service got %q", requested)
	}
	var resp api.MessageResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Message != "University 'Delete University' deleted successfully" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestDeleteUniversityHandler_NotFound(t *testing.T) {
	setup()
	testService.OnDelete = func(ctx context.Context, university string) error {
		return apperrors.ErrNotFound
	}

	rec := deleteVia(t, "Ghost")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec); got != "University not found" {
		t.Errorf("error = %q", got)
	}
}

func TestAskHandler(t *testing.T) {
	setup()
	var captured api.AskRequest
	testService.OnAnswer = func(ctx context.Context, request api.AskRequest) (string, int) {
		captured = request
		return "the answer", http.StatusOK
	}

	payload := `{"query":"q","api_key":"k","university_name":"Test University"}`
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	AskHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if captured.Query != "q" || captured.APIKey != "k" || captured.UniversityName != "Test University" {
		t.Errorf("decoded request wrong: %+v", captured)
	}
	var resp api.AskResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Answer != "the answer" {
		t.Errorf("answer = %q", resp.Answer)
	}
}

func TestAskHandler_MalformedBodyStillAnswers(t *testing.T) {
	setup()
	testService.OnAnswer = func(ctx context.Context, request api.AskRequest) (string, int) {
		if request.Query != "" {
			t.Errorf("expected a zero request, got %+v", request)
		}
		return "guidance", http.StatusBadRequest
	}

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	AskHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp api.AskResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Answer != "guidance" {
		t.Errorf("answer = %q", resp.Answer)
	}
}
