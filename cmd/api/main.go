package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/yassirh/fairsplit/docs"
	"github.com/yassirh/fairsplit/internal/auth"
	"github.com/yassirh/fairsplit/internal/balance"
	"github.com/yassirh/fairsplit/internal/config"
	"github.com/yassirh/fairsplit/internal/database"
	"github.com/yassirh/fairsplit/internal/expense"
	"github.com/yassirh/fairsplit/internal/group"
	"github.com/yassirh/fairsplit/internal/notification"
	"github.com/yassirh/fairsplit/internal/settlement"
	"github.com/yassirh/fairsplit/internal/user"
	"github.com/yassirh/fairsplit/pkg/logging"
	mw "github.com/yassirh/fairsplit/pkg/middleware"
)

// @title          FairSplit API
// @version        1.0
// @description    Shared-expense tracking with split generation and pairwise balances.
// @BasePath       /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	envLoaded := godotenv.Load() == nil

	logging.Setup()
	if !envLoaded {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Auth feature
	authService := auth.NewService(userRepo, tokens)
	authHandler := auth.NewHandler(authService)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, userRepo, notificationService)
	groupHandler := group.NewHandler(groupService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, groupService, notificationService)
	expenseHandler := expense.NewHandler(expenseService)

	// Balance feature
	balanceService := balance.NewService(groupService, expenseRepo, userRepo)
	balanceHandler := balance.NewHandler(balanceService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, expenseRepo, notificationService)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	docs.SwaggerInfo.BasePath = "/api/v1"
	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(tokens))

			r.Get("/auth/me", authHandler.Me)
			r.Mount("/users", userHandler.Routes())
			r.Mount("/groups", groupHandler.Routes())
			r.Mount("/invitations", groupHandler.InvitationRoutes())
			r.Mount("/expenses", expenseHandler.Routes(balanceHandler.ExpenseViews))
			r.Mount("/splits", expenseHandler.SplitRoutes())
			r.Mount("/balances", balanceHandler.Routes())
			r.Mount("/settlements", settlementHandler.Routes())
			r.Mount("/notifications", notificationHandler.Routes())
		})
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
