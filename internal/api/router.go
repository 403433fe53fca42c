package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mavidal/fintrack-be/internal/api/handlers"
	"github.com/mavidal/fintrack-be/internal/auth"
	"github.com/mavidal/fintrack-be/internal/objectstore"
	"github.com/mavidal/fintrack-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	userService services.UserServiceProvider,
	expenseService services.ExpenseServiceProvider,
	premiumService services.PremiumServiceProvider,
	store objectstore.Store,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	premiumHandler := handlers.NewPremiumHandler(premiumService)
	leaderboardHandler := handlers.NewLeaderboardHandler(expenseService)
	exportHandler := handlers.NewExportHandler(store)

	// API versioning. Callers identify themselves by email in the payload
	// (frontend parity); only /auth/me requires a token.
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.With(auth.JWTMiddleware()).Get("/me", authHandler.GetMe)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", expenseHandler.Add)
			r.Get("/", expenseHandler.GetAll)
			r.Get("/daily", expenseHandler.GetDaily)
			r.Get("/weekly", expenseHandler.GetWeekly)
			r.Get("/monthly", expenseHandler.GetMonthly)
			r.Get("/yearly", expenseHandler.GetYearly)
			r.Get("/export", exportHandler.Download)
			r.Delete("/{id}", expenseHandler.Delete)
		})

		r.Route("/premium", func(r chi.Router) {
			r.Post("/order", premiumHandler.CreateOrder)
			r.Post("/activate", premiumHandler.Activate)
			r.Get("/status", premiumHandler.Status)
		})

		r.Get("/leaderboard", leaderboardHandler.Get)
	})

	return r
}
