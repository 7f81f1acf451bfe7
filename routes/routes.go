package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pitchside/matchday/handlers"
	"github.com/pitchside/matchday/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	allowedOrigins []string,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		// Public read access to the bracket and the table.
		r.Get("/bracket", bracketHandler.GetBracketHandler)
		r.Get("/standings", bracketHandler.GetStandingsHandler)

		// Mutations require an authenticated tournament owner; ownership
		// itself is checked in the services.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Post("/bracket", bracketHandler.GenerateBracketHandler)
			r.Post("/swap", bracketHandler.SwapTeamsHandler)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Put("/matches/{matchID}/result", matchHandler.ReportResultHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
