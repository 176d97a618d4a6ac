// Package routes wires the controllers onto a gorilla/mux router.
package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"modboard/app/controllers"
	"modboard/app/metrics"
	"modboard/app/middleware"
	"modboard/app/repositories"
	"modboard/app/services"

	"github.com/gorilla/mux"
)

// Services bundles everything the handlers need.
type Services struct {
	Posts      *services.PostService
	Comments   *services.CommentService
	Reports    *services.ReportService
	Users      *services.UserService
	Moderation *services.ModerationService
	Metrics    *metrics.Recorder
	JWTSecret  []byte
}

// NewServices builds every service on top of store. rec may be nil.
func NewServices(store repositories.Store, rec *metrics.Recorder, secret []byte) *Services {
	posts := services.NewPostService(store, rec)
	reports := services.NewReportService(store, rec)
	return &Services{
		Posts:      posts,
		Comments:   services.NewCommentService(store, rec),
		Reports:    reports,
		Users:      services.NewUserService(store),
		Moderation: services.NewModerationService(posts, reports),
		Metrics:    rec,
		JWTSecret:  secret,
	}
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(s *Services) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Metrics(s.Metrics))

	router.NotFoundHandler = jsonFallback(http.StatusNotFound, "Not found")
	router.MethodNotAllowedHandler = jsonFallback(http.StatusMethodNotAllowed, "Method not allowed")

	router.Handle("/metrics", s.Metrics.Handler()).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	}).Methods("GET")

	postController := controllers.NewPostController(s.Posts, s.Moderation)
	commentController := controllers.NewCommentController(s.Comments, s.Posts)
	reportController := controllers.NewReportController(s.Reports)
	userController := controllers.NewUserController(s.Users, s.Posts)
	moderationController := controllers.NewModerationController(s.Moderation)

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.Authenticate(s.Users, s.JWTSecret))

	// Posts API endpoints
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/{id:[0-9]+}", postController.Show).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}", postController.Delete).Methods("DELETE")
	posts.HandleFunc("/{id:[0-9]+}/status", postController.UpdateStatus).Methods("PATCH")

	// Comments API endpoints
	posts.HandleFunc("/{id:[0-9]+}/comments", commentController.Index).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}/comments", commentController.Create).Methods("POST")
	api.HandleFunc("/comments/{id:[0-9]+}", commentController.Show).Methods("GET")
	api.HandleFunc("/comments/{id:[0-9]+}", commentController.Delete).Methods("DELETE")

	// Reports API endpoints, all authenticated
	reports := api.PathPrefix("/reports").Subrouter()
	reports.Use(middleware.RequireCaller)
	reports.HandleFunc("", reportController.Create).Methods("POST")
	reports.HandleFunc("", reportController.Index).Methods("GET")
	reports.HandleFunc("/pending", reportController.Pending).Methods("GET")
	reports.HandleFunc("/{id:[0-9]+}", reportController.Show).Methods("GET")
	reports.HandleFunc("/{id:[0-9]+}/status", reportController.UpdateStatus).Methods("PATCH")

	// Users API endpoints
	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("/me", userController.Me).Methods("GET")
	users.HandleFunc("", userController.Index).Methods("GET")
	users.HandleFunc("/{clerkId}", userController.Show).Methods("GET")
	users.HandleFunc("/{clerkId}/posts", userController.Posts).Methods("GET")
	users.HandleFunc("/{clerkId}/nickname", userController.UpdateNickname).Methods("PATCH")
	users.HandleFunc("/{clerkId}/role", userController.UpdateRole).Methods("PATCH")

	// Moderation dashboard
	moderation := api.PathPrefix("/moderation").Subrouter()
	moderation.Use(middleware.RequireCaller)
	moderation.HandleFunc("/posts", moderationController.Posts).Methods("GET")
	moderation.HandleFunc("/reports", moderationController.Reports).Methods("GET")
	moderation.HandleFunc("/counts", moderationController.Counts).Methods("GET")

	return router
}

func jsonFallback(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"error": message})
			return
		}
		http.Error(w, message, status)
	})
}
