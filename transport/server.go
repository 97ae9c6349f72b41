package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hupe1980/datatable/codec"
)

// Service handles one decoded command. data is the raw serialized
// DataWrapper payload (may be nil); the returned bytes become the response
// body, normally a row array.
type Service interface {
	Handle(ctx context.Context, cmd string, data []byte) ([]byte, error)
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(cmd string, data []byte) ([]byte, error)

// Handle implements Service.
func (f ServiceFunc) Handle(_ context.Context, cmd string, data []byte) ([]byte, error) {
	return f(cmd, data)
}

// NewHandler builds the backend half of the wire contract: a router that
// accepts command envelopes at POST / and dispatches them to svc. It exists
// primarily so client integrations can be exercised end to end.
func NewHandler(svc Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	c := codec.Default

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var env Envelope
		if err := c.Unmarshal(body, &env); err != nil || env.Cmd == "" {
			http.Error(w, "malformed envelope", http.StatusBadRequest)
			return
		}

		out, err := svc.Handle(req.Context(), env.Cmd, env.Data)
		if err != nil {
			logger.Error("command failed",
				"cmd", env.Cmd,
				"request_id", req.Header.Get(headerRequestID),
				"error", err,
			)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(out)
	})

	return r
}
