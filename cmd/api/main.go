package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/reminder"
	appHTTP "github.com/sj-empleados/empleados-backend-go/internal/handler/http"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/cron"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/jwt"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/sse"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/storage"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/whatsapp"
	"github.com/sj-empleados/empleados-backend-go/internal/repository/postgresql"
	accountService "github.com/sj-empleados/empleados-backend-go/internal/service/account"
	adminService "github.com/sj-empleados/empleados-backend-go/internal/service/admin"
	attendanceService "github.com/sj-empleados/empleados-backend-go/internal/service/attendance"
	serviceAuth "github.com/sj-empleados/empleados-backend-go/internal/service/auth"
	dashboardService "github.com/sj-empleados/empleados-backend-go/internal/service/dashboard"
	disciplinaryService "github.com/sj-empleados/empleados-backend-go/internal/service/disciplinary"
	employeeService "github.com/sj-empleados/empleados-backend-go/internal/service/employee"
	eventService "github.com/sj-empleados/empleados-backend-go/internal/service/event"
	"github.com/sj-empleados/empleados-backend-go/internal/service/file"
	legacyService "github.com/sj-empleados/empleados-backend-go/internal/service/legacy"
	outboxService "github.com/sj-empleados/empleados-backend-go/internal/service/outbox"
	payrollService "github.com/sj-empleados/empleados-backend-go/internal/service/payroll"
	presentismoService "github.com/sj-empleados/empleados-backend-go/internal/service/presentismo"
	reminderService "github.com/sj-empleados/empleados-backend-go/internal/service/reminder"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: appHTTP.ParseLevel(cfg.App.LogLevel),
	})))
	loc := cfg.Location()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if cfg.App.MigrateOnStartup {
		if err := db.Migrate(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: ", err)
		}
	}

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	disciplinaryRepo := postgresql.NewDisciplinaryRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	accountRepo := postgresql.NewAccountRepository(db)
	outboxRepo := postgresql.NewOutboxRepository(db)
	reminderRepo := postgresql.NewReminderRepository(db)
	recipientRepo := postgresql.NewRecipientRepository(db)
	reportRepo := postgresql.NewPresentismoReportRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	sender := whatsapp.New(cfg.WhatsApp, cfg.App.DefaultCountryCode)
	hub := sse.NewHub()

	eventSvc := eventService.NewEventService(eventRepo, employeeRepo, hub)
	outboxSvc := outboxService.NewOutboxService(outboxRepo, cfg.Outbox.MaxAttempts)
	authSvc := serviceAuth.NewAuthService(userRepo, JWTService, cfg)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, txManager, eventSvc, cfg.App.DefaultCountryCode)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, txManager, eventSvc, outboxSvc, fileService, loc)
	disciplinarySvc := disciplinaryService.NewDisciplinaryService(disciplinaryRepo, employeeRepo, txManager, eventSvc, outboxSvc, fileService)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, loc)
	accountSvc := accountService.NewAccountService(accountRepo, employeeRepo, txManager, loc)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, loc)
	presentismoSvc := presentismoService.NewPresentismoService(
		recipientRepo,
		reportRepo,
		sender,
		outboxSvc,
		cfg.Presentismo.Recipients,
		cfg.App.DefaultCountryCode,
		loc,
	)
	reminderSvc := reminderService.NewReminderService(
		reminderRepo,
		txManager,
		eventSvc,
		outboxSvc,
		reminder.Filters{
			OnlyActive:    cfg.Reminders.OnlyActive,
			Departamentos: cfg.Reminders.Departamentos,
			Sucursales:    cfg.Reminders.Sucursales,
		},
		loc,
	)
	adminSvc := adminService.NewAdminService(sender, employeeRepo, attendanceRepo, disciplinaryRepo, fileService)
	legacyImporter := legacyService.NewImporter(legacyService.MongoOpener(cfg.Legacy), postgresql.NewLegacySink(db))

	if cfg.Seed.DefaultUser {
		if err := authSvc.SeedDefaultAdmin(context.Background()); err != nil {
			slog.Error("Failed to seed default admin", "error", err)
		}
	}

	scheduler := cron.NewScheduler(loc)
	if err := cron.NewReminderJobs(reminderSvc, cfg.Reminders).RegisterJobs(scheduler); err != nil {
		log.Fatal("Failed to register reminder jobs: ", err)
	}
	if err := cron.NewPresentismoJobs(presentismoSvc, cfg.Presentismo).RegisterJobs(scheduler); err != nil {
		log.Fatal("Failed to register presentismo jobs: ", err)
	}
	scheduler.Start()

	dispatcher := outboxService.NewDispatcher(outboxRepo, sender, cfg.Outbox)
	dispatcher.Start()

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Disciplinary: appHTTP.NewDisciplinaryHandler(disciplinarySvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Account:      appHTTP.NewAccountHandler(accountSvc),
		Event:        appHTTP.NewEventHandler(eventSvc, JWTService),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Presentismo:  appHTTP.NewPresentismoHandler(presentismoSvc),
		Admin:        appHTTP.NewAdminHandler(adminSvc, reminderSvc, outboxSvc, legacyImporter),
	}, cfg.Storage.BasePath)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "whatsapp_provider", sender.Provider())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
	dispatcher.Stop()
}
