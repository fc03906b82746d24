package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/JeffBaumgardt/family-chores/internal/config"
	"github.com/JeffBaumgardt/family-chores/internal/handlers"
	"github.com/JeffBaumgardt/family-chores/internal/middleware"
	"github.com/JeffBaumgardt/family-chores/internal/repository"
	"github.com/JeffBaumgardt/family-chores/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config) *Server {
	accountRepo := repository.NewAccountRepository(database)
	familyRepo := repository.NewFamilyRepository(database)
	memberRepo := repository.NewMemberRepository(database)
	choreRepo := repository.NewChoreRepository(database)
	activityRepo := repository.NewActivityRepository(database)

	authService := services.NewAuthService(cfg, accountRepo, memberRepo, familyRepo)
	familyService := services.NewFamilyService(familyRepo, memberRepo, choreRepo, activityRepo)
	ledgerService := services.NewLedgerService(activityRepo, choreRepo)

	authHandler := handlers.NewAuthHandler(authService)
	familyHandler := handlers.NewFamilyHandler(familyService)
	choreHandler := handlers.NewChoreHandler(familyService, ledgerService)
	activityHandler := handlers.NewActivityHandler(ledgerService)
	kidHandler := handlers.NewKidHandler(familyService, ledgerService)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
		r.Post("/logout", authHandler.Logout)
		r.Post("/kids/verify", authHandler.VerifyCode)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireChild(authService))

			r.Get("/kids/me", kidHandler.Me)
			r.Post("/chores/{id}/complete", kidHandler.CompleteChore)
			r.Post("/redeem", kidHandler.Redeem)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireParent(authService))

			r.Get("/dashboard", familyHandler.Dashboard)
			r.Get("/codes/suggestions", familyHandler.CodeSuggestions)

			r.Post("/children", familyHandler.AddChild)
			r.Patch("/children/{id}", familyHandler.UpdateChild)
			r.Delete("/children/{id}", familyHandler.RemoveChild)

			r.Post("/chores", choreHandler.Create)
			r.Patch("/chores/{id}", choreHandler.Update)
			r.Delete("/chores/{id}", choreHandler.Delete)
			r.Post("/chores/{id}/deny", choreHandler.Deny)
			r.Post("/chores/{id}/reenable", choreHandler.Reenable)

			r.Get("/activities/chores", choreHandler.Reviews)
			r.Post("/activities/{id}", activityHandler.UpdateStatus)
		})
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

func (server *Server) Router() http.Handler {
	return server.router
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
