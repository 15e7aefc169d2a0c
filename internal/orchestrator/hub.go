package orchestrator

import (
	"encoding/json"
	"sync"

	"github.com/erzhuochen/npuzzle/internal/puzzle"
)

// Hub fans session events out to websocket observers. It stands in for
// the board-drawing layer: observers only ever watch, they never drive
// the game.
type Hub struct {
	mu                  sync.Mutex
	clients             map[*ObserverClient]struct{}
	broadcastBoard      chan boardPayload
	broadcastStep       chan stepPayload
	broadcastComplete   chan completePayload
	broadcastNoSolution chan struct{}
	broadcastAgent      chan agentPayload
}

type ObserverClient struct {
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type boardPayload struct {
	Board    [][]int `json:"board"`
	Solvable bool    `json:"solvable"`
}

type stepPayload struct {
	StepNum int     `json:"step_num"`
	Board   [][]int `json:"board"`
}

type completePayload struct {
	TotalSteps int `json:"total_steps"`
}

type agentPayload struct {
	SolverID  int  `json:"solver_id"`
	Connected bool `json:"connected"`
}

func NewHub() *Hub {
	return &Hub{
		clients:             make(map[*ObserverClient]struct{}),
		broadcastBoard:      make(chan boardPayload, 8),
		broadcastStep:       make(chan stepPayload, 32),
		broadcastComplete:   make(chan completePayload, 8),
		broadcastNoSolution: make(chan struct{}, 8),
		broadcastAgent:      make(chan agentPayload, 8),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcastBoard:
			h.broadcast(wsMessage{Type: "board", Payload: mustMarshal(payload)})
		case payload := <-h.broadcastStep:
			h.broadcast(wsMessage{Type: "step", Payload: mustMarshal(payload)})
		case payload := <-h.broadcastComplete:
			h.broadcast(wsMessage{Type: "complete", Payload: mustMarshal(payload)})
		case <-h.broadcastNoSolution:
			h.broadcast(wsMessage{Type: "no_solution"})
		case payload := <-h.broadcastAgent:
			h.broadcast(wsMessage{Type: "agent", Payload: mustMarshal(payload)})
		}
	}
}

func (h *Hub) broadcast(msg wsMessage) {
	h.mu.Lock()
	for client := range h.clients {
		client.sendJSON(msg)
	}
	h.mu.Unlock()
}

func (h *Hub) Register(c *ObserverClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *ObserverClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

// SessionCallbacks adapts the hub to the session's observer surface.
// The callbacks post into buffered channels, keeping the coordination
// loop off the websocket write path.
func (h *Hub) SessionCallbacks() Callbacks {
	return Callbacks{
		OnBoardLoaded: func(board puzzle.Board, solvable bool) {
			h.broadcastBoard <- boardPayload{Board: board.Grid(), Solvable: solvable}
		},
		OnStep: func(stepNum int, board puzzle.Board) {
			h.broadcastStep <- stepPayload{StepNum: stepNum, Board: board.Grid()}
		},
		OnGameComplete: func(totalSteps int) {
			h.broadcastComplete <- completePayload{TotalSteps: totalSteps}
		},
		OnNoSolution: func() {
			h.broadcastNoSolution <- struct{}{}
		},
		OnAgentConnected: func(id int) {
			h.broadcastAgent <- agentPayload{SolverID: id, Connected: true}
		},
		OnAgentDisconnected: func(id int) {
			h.broadcastAgent <- agentPayload{SolverID: id, Connected: false}
		},
	}
}

func (c *ObserverClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
