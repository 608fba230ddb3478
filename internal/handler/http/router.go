package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/middleware"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/jwt"
)

const (
	appName    = "sj-empleados"
	appVersion = "v1.0.0"
)

type Handlers struct {
	Auth         AuthHandler
	Employee     EmployeeHandler
	Attendance   AttendanceHandler
	Disciplinary DisciplinaryHandler
	Payroll      PayrollHandler
	Account      AccountHandler
	Event        EventHandler
	Dashboard    DashboardHandler
	Presentismo  PresentismoHandler
	Admin        AdminHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, h Handlers, uploadsDir string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token", PromoteTokenHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  ParseLevel(cfg.App.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
	}

	r.Route("/api", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		// Token-gated by header, outside the admin group.
		r.Post("/admin/promote-admin-dev", h.Auth.PromoteAdminDev)

		r.Get("/events/stream", h.Event.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(middleware.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/auth/me", h.Auth.Me)
			r.Get("/auth/stream-token", h.Auth.StreamToken)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Post("/", h.Employee.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Employee.Get)
					r.Put("/", h.Employee.Update)
					r.Delete("/", h.Employee.Delete)
					r.Get("/whatsapp-qr", h.Employee.WhatsAppQR)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Post("/", h.Attendance.Create)
				r.Get("/stats", h.Attendance.Stats)
				r.Get("/employee/{employeeId}", h.Attendance.ListByEmployee)
				r.Get("/{id}", h.Attendance.Get)
				r.Put("/{id}", h.Attendance.Update)
				r.Delete("/{id}", h.Attendance.Delete)
			})

			r.Route("/disciplinary", func(r chi.Router) {
				r.Get("/", h.Disciplinary.List)
				r.Post("/", h.Disciplinary.Create)
				r.Get("/employee/{employeeId}", h.Disciplinary.ListByEmployee)
				r.Get("/{id}", h.Disciplinary.Get)
				r.Put("/{id}", h.Disciplinary.Update)
				r.Delete("/{id}", h.Disciplinary.Delete)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/", h.Payroll.List)
				r.Post("/", h.Payroll.Create)
				r.Get("/employee/{employeeId}", h.Payroll.ListByEmployee)
				r.Get("/{id}", h.Payroll.Get)
				r.Put("/{id}", h.Payroll.Update)
				r.Delete("/{id}", h.Payroll.Delete)
				r.Get("/{id}/pdf", h.Payroll.PDF)
			})

			r.Route("/account", func(r chi.Router) {
				r.Post("/purchase", h.Account.Purchase)
				r.Post("/payment", h.Account.Payment)
				r.Route("/employee/{employeeId}", func(r chi.Router) {
					r.Get("/", h.Account.GetByEmployee)
					r.Put("/weekly-deduction", h.Account.SetWeeklyDeduction)
					r.Post("/payroll-deduction", h.Account.PayrollDeduction)
				})
			})

			r.Route("/events", func(r chi.Router) {
				r.Post("/", h.Event.Create)
				r.Get("/employee/{employeeId}", h.Event.ListByEmployee)
			})

			r.Get("/dashboard/metrics", h.Dashboard.Metrics)

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Post("/whatsapp/test", h.Admin.TestWhatsApp)
				r.Post("/whatsapp/broadcast", h.Admin.Broadcast)

				r.Post("/migrate/raw-formats", h.Admin.MigrateRawFormats)
				r.Post("/migrate/legacy", h.Admin.MigrateLegacy)

				r.Post("/reminders/run", h.Admin.RunReminders)
				r.Get("/reminders/dispatches", h.Admin.ListDispatches)

				r.Get("/outbox", h.Admin.ListOutbox)
				r.Post("/outbox/{id}/retry", h.Admin.RetryOutbox)

				r.Route("/presentismo", func(r chi.Router) {
					r.Post("/report/preview", h.Presentismo.Preview)
					r.Post("/report/send", h.Presentismo.Send)
					r.Get("/report/pdf", h.Presentismo.PDF)

					r.Route("/recipients", func(r chi.Router) {
						r.Get("/", h.Presentismo.ListRecipients)
						r.Post("/", h.Presentismo.CreateRecipient)
						r.Put("/{id}", h.Presentismo.UpdateRecipient)
						r.Delete("/{id}", h.Presentismo.DeleteRecipient)
						r.Get("/{id}/whatsapp-qr", h.Presentismo.RecipientQR)
					})
				})
			})
		})
	})
	return r
}

// ParseLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
