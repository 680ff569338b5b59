package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"verbalist/internal/auth"
	"verbalist/internal/ratelimit"
	"verbalist/internal/service"
)

// Services bundles the services the HTTP layer exposes
type Services struct {
	Sessions *service.SessionService
	Lists    *service.ListService
	Users    *service.UserService
	Personas *service.PersonaCatalog

	// Limiter throttles the callable endpoints; nil disables throttling
	Limiter *ratelimit.Limiter
}

// NewRouter wires every route. A nil verifier leaves all requests
// unauthenticated.
func NewRouter(svc Services, verifier *auth.Verifier, status *StartupStatus) http.Handler {
	sessionHandler := NewSessionHandler(svc.Sessions, svc.Personas)
	listHandler := NewListHandler(svc.Lists)
	userHandler := NewUserHandler(svc.Users)
	personaHandler := NewPersonaHandler(svc.Personas)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging)
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware(verifier))

	r.Get("/", Hello)
	if status != nil {
		r.Get("/health", status.ShowStartupStatus)
	}

	// Callable functions
	r.Group(func(r chi.Router) {
		r.Use(RateLimit(svc.Limiter))
		r.Post("/createChatSession", sessionHandler.CreateChatSession)
		r.Post("/createCustomWordList", listHandler.CreateCustomWordList)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/personas", personaHandler.ListPersonas)
		r.Get("/wordlists/templates", listHandler.ListTemplates)
		r.Get("/wordlists/{id}", listHandler.GetList)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/sessions/{id}", sessionHandler.GetSession)
			r.Get("/me", userHandler.GetMe)
			r.Put("/me/name", userHandler.UpdateName)
			r.Put("/me/active-word-list", userHandler.SetActiveWordList)
			r.Get("/me/wordlists", listHandler.ListMine)
		})
	})

	return r
}
