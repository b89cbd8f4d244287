package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/JohnBaeGH/smio-app/handlers"
	"github.com/JohnBaeGH/smio-app/middlewares"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes(h *handlers.Handler) *Server {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms", h.CreateRoom).Methods("POST")
	api.HandleFunc("/rooms/{id}", h.GetRoom).Methods("GET")
	api.HandleFunc("/rooms/{id}/menu", h.OverrideMenu).Methods("PUT")
	api.HandleFunc("/rooms/{id}/orders", h.AddOrder).Methods("POST")
	api.HandleFunc("/rooms/{id}/orders/{index}", h.DeleteOrder).Methods("DELETE")
	api.HandleFunc("/rooms/{id}/summary", h.Summary).Methods("GET")

	api.HandleFunc("/admin/login", h.AdminLogin).Methods("POST")

	// admin only
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.AdminMiddleware(h.JWTSecret))

	admin.HandleFunc("/logs", h.AdminMonths).Methods("GET")
	admin.HandleFunc("/logs/{month}", h.AdminMonthLogs).Methods("GET")
	admin.HandleFunc("/logs/{month}", h.AdminDeleteMonth).Methods("DELETE")
	admin.HandleFunc("/logs/{month}/entry", h.AdminDeleteEntry).Methods("DELETE")
	admin.HandleFunc("/logs/{month}/rooms/{room}", h.AdminDeleteRoomLogs).Methods("DELETE")

	return &Server{
		Router: router,
		server: &http.Server{
			Handler:           router,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
		},
	}
}

func (svr *Server) Run(addr string) error {
	svr.server.Addr = addr
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
