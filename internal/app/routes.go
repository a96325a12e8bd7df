package app

import (
	"net/http"

	"todoService/internal/config"
	"todoService/internal/handlers"
	"todoService/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func (a *App) routes() http.Handler {
	taskHandler := handlers.NewTaskHandler(a.tasks)
	userHandler := handlers.NewUserHandler(a.users)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.allowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderRequestID, handlers.HeaderUserID, handlers.HeaderUserEmail},
		ExposedHeaders: []string{middleware.HeaderRequestID},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(a.config.HTTP.RateLimitRPM))

	r.Get("/health", taskHandler.HealthCheck) // GET /health

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.PostUser) // POST /users

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", userHandler.GetUserByID)   // GET /users/{id}
			r.Delete("/", userHandler.DeleteUser) // DELETE /users/{id}
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		if a.config.Identity.Mode == config.IdentityHeader {
			r.Use(handlers.Identity(a.identity))
		}

		r.Get("/", taskHandler.GetTasks)  // GET /tasks
		r.Post("/", taskHandler.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)              // GET /tasks/{id}
			r.Patch("/", taskHandler.PatchTask)              // PATCH /tasks/{id}
			r.Delete("/", taskHandler.DeleteTask)            // DELETE /tasks/{id}
			r.Patch("/status", taskHandler.PatchTaskStatus) // PATCH /tasks/{id}/status
		})
	})

	return otelhttp.NewHandler(r, "todo-api")
}

func (a *App) allowedOrigins() []string {
	if len(a.config.HTTP.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return a.config.HTTP.CORSAllowedOrigins
}
