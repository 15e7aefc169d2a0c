package orchestrator

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/erzhuochen/npuzzle/internal/puzzle"
)

// StatusResponse is the JSON shape of the session snapshot served to
// observers.
type StatusResponse struct {
	Phase            string  `json:"phase"`
	StepCount        int     `json:"step_count"`
	CurrentSolver    int     `json:"current_solver"`
	Solvable         bool    `json:"solvable"`
	Board            [][]int `json:"board,omitempty"`
	ConnectedSolvers []int   `json:"connected_solvers"`
}

type loadBoardRequest struct {
	Board [][]int `json:"board"`
}

// NewRouter serves the observer surface: status, board loading and the
// websocket event stream.
func NewRouter(session *Session, hub *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse(session.Status()))
	})

	r.Post("/api/load", func(w http.ResponseWriter, r *http.Request) {
		var payload loadBoardRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		board, err := puzzle.New(payload.Board)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, statusResponse(session.LoadBoard(board)))
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveObserverWS(hub, session, w, r)
	})

	return r
}

func serveObserverWS(hub *Hub, session *Session, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &ObserverClient{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(statusResponse(session.Status()))})

	go func() {
		defer conn.Close()
		if err := writeObserverWS(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(statusResponse(session.Status()))})
		}
	}
}

func statusResponse(status Status) StatusResponse {
	connected := status.Connected
	if connected == nil {
		connected = []int{}
	}
	return StatusResponse{
		Phase:            status.Phase.String(),
		StepCount:        status.StepCount,
		CurrentSolver:    status.CurrentSolver,
		Solvable:         status.Solvable,
		Board:            status.Board,
		ConnectedSolvers: connected,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
