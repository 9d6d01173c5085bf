package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Every route below runs with a resolved browser session; access
	// control per route is decided inside the handlers.
	r.Group(func(r chi.Router) {
		r.Use(apiHandler.SessionMiddleware)

		r.Post("/signup", apiHandler.SignupHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/skip-login", apiHandler.SkipLoginHandler)
		r.Get("/logout", apiHandler.LogoutHandler)

		r.Post("/chat", apiHandler.ChatHandler)
		r.Post("/pose", apiHandler.PoseHandler)
		r.Post("/new-chat", apiHandler.NewChatHandler)
		r.Get("/get-chat-history", apiHandler.ChatHistoryHandler)
	})

	return r
}
