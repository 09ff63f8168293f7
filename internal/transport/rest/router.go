package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"timesheet-management/internal/auth"
	"timesheet-management/internal/project"
	"timesheet-management/internal/timesheet"
	"timesheet-management/internal/transport/middleware"
	"timesheet-management/internal/transport/swagger"
	"timesheet-management/internal/user"
)

// RegisterAllRoutes wires the middleware chain and every API route onto
// the router. Update and delete travel as POSTs with the id in the body.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	projectHandler *project.Handler,
	timesheetHandler *timesheet.Handler,
	allowedOrigins string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Recovery(logger))

	// OpenAPI spec and Swagger UI live at root, outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.RefreshToken)

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Post("/logout", authHandler.Logout)

			pr.Route("/users", func(ur chi.Router) {
				ur.Post("/", userHandler.Create)
				ur.Get("/", userHandler.List)
				ur.Get("/{id}", userHandler.Get)
				ur.Post("/update", userHandler.Update)
				ur.Post("/delete", userHandler.Delete)
			})

			pr.Route("/projects", func(prj chi.Router) {
				prj.Post("/", projectHandler.Create)
				prj.Get("/", projectHandler.List)
				prj.Get("/{id}", projectHandler.Get)
				prj.Post("/update", projectHandler.Update)
				prj.Post("/delete", projectHandler.Delete)
			})

			pr.Route("/timesheets", func(tr chi.Router) {
				tr.Post("/", timesheetHandler.Create)
				tr.Get("/", timesheetHandler.List)
				tr.Get("/{id}", timesheetHandler.Get)
				tr.Post("/update", timesheetHandler.Update)
				tr.Post("/delete", timesheetHandler.Delete)
			})
		})
	})
}
