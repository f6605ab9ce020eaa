package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/volkiswipe/umfrage/internal/models"
	"github.com/volkiswipe/umfrage/internal/services"
)

// fakeStore backs every service with one in-memory dataset so the handler
// tests exercise the full service path.
type fakeStore struct {
	participants map[int64]*models.Participant
	responses    map[int64][]models.Response
	questions    []models.Question
	nextID       int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		participants: make(map[int64]*models.Participant),
		responses:    make(map[int64][]models.Response),
		questions: []models.Question{
			{ID: 1, Category: "sicherheit", Text: "Mehr Polizeipräsenz", SortOrder: 1, Active: true},
			{ID: 2, Category: "verkehr", Text: "Tempo 30 im Zentrum", SortOrder: 2, Active: true},
		},
		nextID: 1,
	}
}

func (f *fakeStore) SaveSubmission(p *models.Participant, responses []models.Response) (int64, error) {
	id := p.ID
	if id == 0 {
		id = f.nextID
		f.nextID++
	} else if _, ok := f.participants[id]; !ok {
		return 0, models.ErrParticipantNotFound
	}
	stored := *p
	stored.ID = id
	f.participants[id] = &stored
	f.responses[id] = responses
	return id, nil
}

func (f *fakeStore) ListActiveQuestions() ([]models.Question, error) { return f.questions, nil }

func (f *fakeStore) CountParticipants() (int, error) { return len(f.participants), nil }

func (f *fakeStore) CountResponses() (int, error) {
	n := 0
	for _, rs := range f.responses {
		n += len(rs)
	}
	return n, nil
}

func (f *fakeStore) ResponseStatistics() ([]models.StatRow, error) {
	counts := make(map[models.StatRow]int)
	for _, rs := range f.responses {
		for _, r := range rs {
			counts[models.StatRow{QuestionID: r.QuestionID, Value: r.Value}]++
		}
	}
	rows := make([]models.StatRow, 0, len(counts))
	for key, n := range counts {
		key.Count = n
		rows = append(rows, key)
	}
	return rows, nil
}

func (f *fakeStore) ResponseDistribution() ([]models.ValueCount, error) { return nil, nil }

func (f *fakeStore) TopQuestions(int) ([]models.QuestionCount, error) { return nil, nil }

func (f *fakeStore) RecentParticipants(int) ([]models.Participant, error) { return nil, nil }

func (f *fakeStore) ExportRows() ([]models.ExportRow, error) {
	rows := make([]models.ExportRow, 0)
	for id, p := range f.participants {
		for _, r := range f.responses[id] {
			qid, value := r.QuestionID, string(r.Value)
			rows = append(rows, models.ExportRow{
				ParticipantID: id,
				Name:          p.Name,
				Email:         p.Email,
				SubmittedAt:   p.SubmittedAt,
				QuestionID:    &qid,
				Value:         &value,
			})
		}
	}
	return rows, nil
}

const testToken = "geheim"

func newTestHandler(store *fakeStore) http.Handler {
	rt := NewRouter(
		services.NewSubmissionService(store, time.UTC),
		services.NewQuestionService(store),
		services.NewStatsService(store, testToken),
		services.NewExportService(store, testToken),
		nil,
	)
	mux := http.NewServeMux()
	rt.Register(mux)
	return mux
}

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestSubmitCreatesParticipant(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)

	rec := postJSON(t, h, `{
		"userData": {"name": "Anna", "email": "anna@example.ch"},
		"responses": {"1": "sehr_wichtig", "2": "egal"},
		"timestamp": "2024-05-01T10:00:00Z"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	if body["participantId"] != float64(1) {
		t.Fatalf("participantId = %v", body["participantId"])
	}
	if body["responsesCount"] != float64(2) {
		t.Fatalf("responsesCount = %v", body["responsesCount"])
	}
	if body["isAutoSave"] != false {
		t.Fatalf("isAutoSave = %v", body["isAutoSave"])
	}
	if store.participants[1].SubmittedAt != "2024-05-01 10:00:00" {
		t.Fatalf("stored timestamp = %q", store.participants[1].SubmittedAt)
	}
}

func TestSubmitValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"malformed json", `{"userData": `, "invalid payload"},
		{"blank name", `{"userData": {"name": "  "}, "timestamp": "2024-05-01T10:00:00Z"}`, "name required"},
		{"bad timestamp", `{"userData": {"name": "Anna"}, "timestamp": "gestern"}`, "invalid timestamp"},
		{"bad value", `{"userData": {"name": "Anna"}, "timestamp": "2024-05-01T10:00:00Z", "responses": {"1": "super"}}`, "invalid response value"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			rec := postJSON(t, newTestHandler(store), tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if body := decodeBody(t, rec); body["error"] != tc.msg {
				t.Fatalf("error = %v, want %q", body["error"], tc.msg)
			}
			if len(store.participants) != 0 {
				t.Fatal("rejected payload reached the store")
			}
		})
	}
}

func TestSubmitUnknownParticipant(t *testing.T) {
	rec := postJSON(t, newTestHandler(newFakeStore()), `{
		"userData": {"name": "Anna"},
		"timestamp": "2024-05-01T10:00:00Z",
		"participantId": 77
	}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["error"] != "unknown participant id" {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestGetQuestionsIsPublic(t *testing.T) {
	h := newTestHandler(newFakeStore())
	req := httptest.NewRequest(http.MethodGet, "/api?action=getQuestions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	questions, ok := body["questions"].([]any)
	if !ok || len(questions) != 2 {
		t.Fatalf("questions = %v", body["questions"])
	}
	categories, ok := body["categories"].([]any)
	if !ok || len(categories) != 2 {
		t.Fatalf("categories = %v", body["categories"])
	}
}

func TestStatsRequiresToken(t *testing.T) {
	h := newTestHandler(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api?token=falsch", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d", rec.Code)
	}
}

func TestStatsWithToken(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)
	postJSON(t, h, `{
		"userData": {"name": "Anna"},
		"responses": {"1": "wichtig"},
		"timestamp": "2024-05-01T10:00:00Z"
	}`)

	req := httptest.NewRequest(http.MethodGet, "/api?token="+testToken, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["participantCount"] != float64(1) {
		t.Fatalf("participantCount = %v", body["participantCount"])
	}
}

func TestExportHeaders(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)
	postJSON(t, h, `{
		"userData": {"name": "Anna"},
		"responses": {"1": "wichtig"},
		"timestamp": "2024-05-01T10:00:00Z"
	}`)

	req := httptest.NewRequest(http.MethodGet, "/export?type=csv&token="+testToken, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="umfrage_export_`) {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "Anna") {
		t.Fatal("export body missing participant")
	}
}

func TestExportDefaultsToCSV(t *testing.T) {
	h := newTestHandler(newFakeStore())
	req := httptest.NewRequest(http.MethodGet, "/export?token="+testToken, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestExportRejectsBadToken(t *testing.T) {
	h := newTestHandler(newFakeStore())
	req := httptest.NewRequest(http.MethodGet, "/export?type=csv&token=falsch", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(newFakeStore())

	req := httptest.NewRequest(http.MethodDelete, "/api", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE /api: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/export", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /export: status = %d", rec.Code)
	}
}
