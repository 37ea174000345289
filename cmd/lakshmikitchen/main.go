package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"lakshmikitchen/internal/config"
	"lakshmikitchen/internal/database"
	"lakshmikitchen/internal/handler"
	"lakshmikitchen/internal/mailer"
	"lakshmikitchen/internal/mw"
	"lakshmikitchen/internal/otp"
	"lakshmikitchen/internal/payment"
	"lakshmikitchen/internal/repository"
	"lakshmikitchen/internal/service"
	"lakshmikitchen/internal/token"
	"lakshmikitchen/internal/worker"
)

const otpTTL = 5 * time.Minute

func main() {
	cfg := config.New()

	db, err := database.New(cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate DB schema", "error", err)
		os.Exit(1)
	}

	// Repositories
	accountRepo := repository.NewAccountRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	reportRepo := repository.NewReportRepo(db)

	// Collaborators
	tokens := token.NewManager(cfg.CustomerJWTSecret, cfg.StaffJWTSecret)
	otpStore := otp.NewMemoryStore(otpTTL)
	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret)

	var mail mailer.Mailer
	if cfg.SMTPConfigured() {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		slog.Warn("SMTP not configured, verification codes will be logged")
		mail = mailer.LogMailer{}
	}

	// Services
	authSvc := service.NewAuthService(accountRepo, tokens)
	otpSvc := service.NewOTPService(accountRepo, otpStore, mail, otpTTL)
	orderSvc := service.NewOrderService(orderRepo, gateway, cfg.Currency)
	sessionSvc := service.NewSessionService(sessionRepo, orderRepo)
	reportSvc := service.NewReportService(reportRepo)

	// Worker
	otpSweeper := worker.NewOTPSweeper(otpStore)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Post("/api/register", handler.RegisterHandler(otpSvc))
	r.Post("/api/verify-otp", handler.VerifyOTPHandler(otpSvc))
	r.Post("/api/login", handler.LoginHandler(authSvc))
	r.Post("/api/orders", handler.CreateOrderHandler(orderSvc))
	r.Post("/api/payments/confirm", handler.ConfirmPaymentHandler(orderSvc))

	// Either audience
	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(tokens))
		r.Get("/api/me", handler.MeHandler())
	})

	// Customer routes
	r.Group(func(r chi.Router) {
		r.Use(mw.CustomerOnly(tokens))
		r.Get("/api/orders/mine", handler.MyOrdersHandler(orderSvc))
	})

	// Staff routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.StaffOnly(tokens, accountRepo))

		r.Post("/send-otp", handler.SendStaffOTPHandler(otpSvc))
		r.Post("/verify-otp", handler.VerifyStaffOTPHandler(otpSvc))

		r.Get("/orders/today", handler.TodayReportHandler(reportSvc))
		r.Get("/orders/range", handler.RangeReportHandler(reportSvc))
		r.Get("/orders/unreconciled", handler.UnreconciledHandler(orderSvc))
		r.Post("/orders/{id}/mark-paid", handler.MarkPaidHandler(orderSvc))

		r.Post("/session/start", handler.StartSessionHandler(sessionSvc))
		r.Post("/session/stop", handler.StopSessionHandler(sessionSvc))
		r.Get("/session/status", handler.SessionStatusHandler(sessionSvc))
		r.Get("/session/current", handler.CurrentOrdersHandler(sessionSvc))
		r.Get("/session/summary", handler.SessionSummaryHandler(sessionSvc))
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go otpSweeper.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
