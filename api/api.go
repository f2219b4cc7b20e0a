package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cameroncuttingedge/chess_relay/game"
	"github.com/cameroncuttingedge/chess_relay/session"
	"github.com/cameroncuttingedge/chess_relay/websocket"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// Options configures the HTTP surface. Everything else is wired
// internally: registry, hub, and coordinator.
type Options struct {
	Addr           string
	TLSCert        string
	TLSKey         string
	AllowedOrigins []string
}

// Start wires the relay together and serves until ctx is cancelled.
func Start(ctx context.Context, opts Options) error {
	registry := game.NewRegistry()
	hub := websocket.NewHub()
	coord := session.NewCoordinator(registry, hub)

	r := NewRouter(hub, coord, registry)

	cors := handlers.CORS(
		handlers.AllowedOrigins(opts.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST"}),
	)

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           cors(r),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Minute,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", opts.Addr).Msg("Server started")
		var err error
		if opts.TLSCert != "" && opts.TLSKey != "" {
			err = srv.ListenAndServeTLS(opts.TLSCert, opts.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewRouter registers the relay's HTTP surface: the websocket
// endpoint, a fixed-body liveness probe, and a read-only room
// snapshot for deployment debugging.
func NewRouter(hub *websocket.Hub, coord *session.Coordinator, registry *game.Registry) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/ws", hub.ServeWS(coord))
	r.HandleFunc("/test", testHandler).Methods("GET")
	r.HandleFunc("/room/{roomID}/state", roomStateHandler(registry)).Methods("GET")

	return r
}

func testHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("test V3.0"))
}

func roomStateHandler(registry *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		roomID, ok := vars["roomID"]
		if !ok {
			http.Error(w, "Room ID is required", http.StatusBadRequest)
			return
		}

		room, exists := registry.Get(roomID)
		if !exists {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(room.State()); err != nil {
			log.Error().Err(err).Str("room", roomID).Msg("Failed to encode room state")
		}
	}
}
