package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/volkiswipe/umfrage/internal/api"
	"github.com/volkiswipe/umfrage/internal/config"
	"github.com/volkiswipe/umfrage/internal/db"
	"github.com/volkiswipe/umfrage/internal/mailer"
	"github.com/volkiswipe/umfrage/internal/middleware"
	"github.com/volkiswipe/umfrage/internal/services"
	"github.com/volkiswipe/umfrage/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	conn, err := db.Open(cfg.DBHost, cfg.DBName, cfg.DBUser, cfg.DBPassword)
	if err != nil {
		slog.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		_ = conn.Close()
	}()

	if err := db.CreateSchema(conn); err != nil {
		slog.Error("schema creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := db.NewMySQLStore(conn)
	if err != nil {
		slog.Error("store init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var notifications *services.NotificationService
	if cfg.MailEnabled() {
		smtp, err := mailer.NewSMTPMailer(mailer.Config{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUser,
			Password:  cfg.SMTPPassword,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		})
		if err != nil {
			slog.Error("smtp init failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		notifications = services.NewNotificationService(store, smtp, cfg.FromName)
	} else {
		slog.Warn("no SMTP host configured, summary mails disabled")
	}

	submissions := services.NewSubmissionService(store, cfg.Location)
	questions := services.NewQuestionService(store)
	stats := services.NewStatsService(store, cfg.AdminToken)
	exports := services.NewExportService(store, cfg.AdminToken)
	sessions := middleware.NewSessions(cfg.SessionSecret)

	mux := http.NewServeMux()
	api.NewRouter(submissions, questions, stats, exports, notifications).Register(mux)
	web.NewAdminHandler(stats, sessions, cfg.AdminToken).Register(mux)

	handler := middleware.CORS(middleware.SecureHeaders(middleware.Logging(mux)))

	slog.Info("survey server listening", slog.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
