package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JohnBaeGH/smio-app/handlers"
)

func newTestServer() *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return SetupRoutes(&handlers.Handler{
		JWTSecret: []byte("test-secret"),
		Log:       logrus.NewEntry(logger),
	})
}

func TestShutdownBeforeRun(t *testing.T) {
	svr := newTestServer()
	if err := svr.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown before Run = %v, want nil", err)
	}
}

func TestHealthRoute(t *testing.T) {
	svr := newTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	svr.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	svr := newTestServer()

	req := httptest.NewRequest("GET", "/api/admin/logs", nil)
	rec := httptest.NewRecorder()
	svr.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated admin status = %d, want 401", rec.Code)
	}
}
