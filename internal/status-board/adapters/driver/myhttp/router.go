package myhttp

import (
	"net/http"
	"strings"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/adapters/driver/myhttp/handlers"
	"iitk-connect/internal/status-board/adapters/driver/myhttp/middleware"
	"iitk-connect/internal/status-board/core/services"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires every route onto a chi router.
func NewRouter(svc *services.Service, corsOrigin string, mylog mylogger.Logger) http.Handler {
	driverHandler := handlers.NewDriverHandler(svc.DriverService, mylog)
	statusHandler := handlers.NewStatusHandler(svc.StatusService, mylog)
	smsHandler := handlers.NewSMSHandler(svc.SMSService, mylog)
	wsHandler := handlers.NewWebSocketHandler(svc.AuthService, svc.StatusService, mylog)
	authMiddleware := middleware.NewAuthMiddleware(svc.AuthService, mylog)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(mylog))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: splitOrigins(corsOrigin),
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", driverHandler.Health())
	r.Get("/ws/driver", wsHandler.HandleDriver)

	r.Route("/api", func(r chi.Router) {
		r.Get("/riders", driverHandler.Riders())
		r.Get("/codes", statusHandler.Codes())
		r.Post("/register", driverHandler.Register())
		r.Post("/login", driverHandler.Login())
		r.Post("/sms", smsHandler.Receive())
		r.Get("/driver/{phone}", driverHandler.Lookup())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Wrap)
			r.Post("/update", statusHandler.Update())
			r.Put("/driver/profile", driverHandler.UpdateProfile())
		})
	})

	return r
}

// splitOrigins accepts a comma separated list.
func splitOrigins(s string) []string {
	var origins []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
