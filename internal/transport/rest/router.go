package rest

import (
	"checkin/docs"
	"checkin/internal/live"
	"checkin/internal/service"
	"checkin/internal/transport/rest/handler"
	"checkin/internal/transport/rest/middleware"
	"checkin/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	SessionService   *service.SessionService
	RegistrarService *service.RegistrarService
	QueryService     *service.QueryService
	ContactService   *service.ContactService
	LiveHub          *live.Hub
	HistoryLimit     int
	AllowedOrigins   []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.QueryService)
	participantHandler := handler.NewParticipantHandler(c.RegistrarService, c.QueryService)
	contactHandler := handler.NewContactHandler(c.ContactService)
	wsHandler := ws.NewHandler(c.LiveHub, c.QueryService, c.AuthService, c.HistoryLimit)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes. Fixed paths are registered before /sessions/{id}.
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	v1.HandleFunc("/sessions/active", sessionHandler.Active).Methods("GET")
	v1.HandleFunc("/sessions/active/contacts.vcf", contactHandler.DownloadActive).Methods("GET")
	v1.HandleFunc("/sessions/{id}/participants", participantHandler.Register).Methods("POST")
	v1.HandleFunc("/docs/swagger.json", serveDocs).Methods("GET")

	// WebSocket routes (admin passes the token as a query param)
	v1.HandleFunc("/ws/live", wsHandler.LiveWS).Methods("GET")
	v1.HandleFunc("/ws/admin", wsHandler.AdminWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	adminRoutes.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	adminRoutes.HandleFunc("/sessions", sessionHandler.Start).Methods("POST")
	adminRoutes.HandleFunc("/sessions", sessionHandler.List).Methods("GET")
	adminRoutes.HandleFunc("/sessions/active/end", sessionHandler.End).Methods("POST")
	adminRoutes.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET")
	adminRoutes.HandleFunc("/sessions/{id}/participants", participantHandler.List).Methods("GET")
	adminRoutes.HandleFunc("/sessions/{id}/contacts.vcf", contactHandler.DownloadSession).Methods("GET")

	return cors.New(cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
	}).Handler(r)
}

func serveDocs(w http.ResponseWriter, r *http.Request) {
	doc := docs.SwaggerInfo.ReadDoc()
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
