package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/volkiswipe/umfrage/internal/services"
)

// Router wires the survey endpoints onto a ServeMux.
type Router struct {
	submissions   *services.SubmissionService
	questions     *services.QuestionService
	stats         *services.StatsService
	exports       *services.ExportService
	notifications *services.NotificationService
}

func NewRouter(
	submissions *services.SubmissionService,
	questions *services.QuestionService,
	stats *services.StatsService,
	exports *services.ExportService,
	notifications *services.NotificationService,
) *Router {
	return &Router{
		submissions:   submissions,
		questions:     questions,
		stats:         stats,
		exports:       exports,
		notifications: notifications,
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api", rt.handleAPI)
	mux.HandleFunc("/export", rt.handleExport)
}

func (rt *Router) handleAPI(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.handleSubmit(w, r)
	case http.MethodGet:
		if r.URL.Query().Get("action") == "getQuestions" {
			rt.handleQuestions(w, r)
			return
		}
		rt.handleStats(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
	}
}

// submitPayload mirrors the survey front end's POST body.
type submitPayload struct {
	UserData struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"userData"`
	Responses     map[string]string `json:"responses"`
	Timestamp     string            `json:"timestamp"`
	ParticipantID int64             `json:"participantId"`
	IsAutoSave    bool              `json:"isAutoSave"`
	SendEmail     bool              `json:"sendEmail"`
}

func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	result, err := rt.submissions.Save(&services.SubmissionRequest{
		Name:          payload.UserData.Name,
		Email:         payload.UserData.Email,
		Timestamp:     payload.Timestamp,
		Responses:     payload.Responses,
		ParticipantID: payload.ParticipantID,
		IsAutoSave:    payload.IsAutoSave,
		SendEmail:     payload.SendEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// Persistence is committed; the confirmation mail is fire-and-forget.
	if result.SendEmail && result.Email != "" && rt.notifications != nil {
		if err := rt.notifications.SendSummary(result.Email, result.Name, result.Responses); err != nil {
			slog.Error("summary mail failed",
				slog.Int64("participant_id", result.ParticipantID),
				slog.String("error", err.Error()),
			)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":        true,
		"participantId":  result.ParticipantID,
		"responsesCount": result.ResponsesCount,
		"isAutoSave":     result.IsAutoSave,
	})
}

func (rt *Router) handleQuestions(w http.ResponseWriter, _ *http.Request) {
	questions, categories, err := rt.questions.ListActiveQuestions()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"questions":  questions,
		"categories": categories,
	})
}

func (rt *Router) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.stats.Statistics(r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"participantCount": stats.ParticipantCount,
		"statistics":       stats.Rows,
	})
}

func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}
	token := r.URL.Query().Get("token")
	exportType := r.URL.Query().Get("type")
	if exportType == "" {
		exportType = "csv"
	}

	var (
		result *services.ExportResult
		err    error
	)
	if exportType == "stats" {
		result, err = rt.exports.ExportStatistics(token)
	} else {
		result, err = rt.exports.ExportParticipants(token, exportType)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	if _, err := w.Write(result.Data); err != nil {
		slog.Error("export write failed", slog.String("error", err.Error()))
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response failed", slog.String("error", err.Error()))
	}
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	if se, ok := services.AsServiceError(err); ok {
		msg = se.Message
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorNotFound:
			status = http.StatusNotFound
		}
	}
	writeJSON(w, status, map[string]any{"error": msg})
}
