// Package web serves the session-gated admin dashboard.
package web

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/volkiswipe/umfrage/internal/middleware"
	"github.com/volkiswipe/umfrage/internal/models"
	"github.com/volkiswipe/umfrage/internal/services"
)

// valueLabels maps the response enumeration to dashboard display labels.
var valueLabels = map[models.ResponseValue]string{
	models.ResponseSehrWichtig: "⭐ Sehr wichtig",
	models.ResponseWichtig:     "👍 Wichtig",
	models.ResponseUnwichtig:   "👎 Unwichtig",
	models.ResponseEgal:        "😐 Egal",
}

var templateFuncs = template.FuncMap{
	"valueLabel": func(v models.ResponseValue) string {
		if label, ok := valueLabels[v]; ok {
			return label
		}
		return string(v)
	},
	"shortTime": func(stored string) string {
		t, err := time.Parse("2006-01-02 15:04:05", stored)
		if err != nil {
			return stored
		}
		return t.Format("02.01.2006 15:04")
	},
}

// AdminHandler renders the login form and the statistics dashboard. Access
// is gated by a signed session cookie; the login password is the shared
// admin secret.
type AdminHandler struct {
	stats    *services.StatsService
	sessions *middleware.Sessions
	token    string
}

func NewAdminHandler(stats *services.StatsService, sessions *middleware.Sessions, token string) *AdminHandler {
	return &AdminHandler{stats: stats, sessions: sessions, token: token}
}

func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin", h.handleAdmin)
}

func (h *AdminHandler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("logout") {
		http.SetCookie(w, middleware.Clear())
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodPost {
		h.handleLogin(w, r)
		return
	}

	if !h.sessions.Authenticated(r) {
		h.renderLogin(w, "")
		return
	}
	h.renderDashboard(w)
}

func (h *AdminHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, "Ungültige Anfrage")
		return
	}
	// Same shared secret as the stats/export API, compared exactly.
	if err := h.stats.Authorize(r.PostFormValue("password")); err != nil {
		h.renderLogin(w, "Falsches Passwort")
		return
	}
	cookie, err := h.sessions.Issue()
	if err != nil {
		slog.Error("issue session failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) renderLogin(w http.ResponseWriter, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if errMsg != "" {
		w.WriteHeader(http.StatusUnauthorized)
	}
	if err := loginTemplate.Execute(w, struct{ Error string }{Error: errMsg}); err != nil {
		slog.Error("render login failed", slog.String("error", err.Error()))
	}
}

func (h *AdminHandler) renderDashboard(w http.ResponseWriter) {
	data, err := h.stats.Dashboard()
	if err != nil {
		slog.Error("load dashboard failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = dashboardTemplate.Execute(w, struct {
		*services.DashboardData
		Token string
	}{DashboardData: data, Token: h.token})
	if err != nil {
		slog.Error("render dashboard failed", slog.String("error", err.Error()))
	}
}
