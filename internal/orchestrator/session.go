// Package orchestrator owns the authoritative puzzle board and
// serializes all access to it: it accepts the two solver agents,
// alternates their turns, validates moves and broadcasts lifecycle
// events to agents and observers.
package orchestrator

import (
	"fmt"
	"log"
	"net"

	"github.com/erzhuochen/npuzzle/internal/protocol"
	"github.com/erzhuochen/npuzzle/internal/puzzle"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingAgents
	PhaseRunning
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingAgents:
		return "awaiting_agents"
	case PhaseRunning:
		return "running"
	case PhaseComplete:
		return "complete"
	default:
		return "idle"
	}
}

// Callbacks is the observer surface. All callbacks run on the
// session's coordination goroutine, so they must not block for long
// and must not call back into the session.
type Callbacks struct {
	OnBoardLoaded       func(board puzzle.Board, solvable bool)
	OnStep              func(stepNum int, board puzzle.Board)
	OnGameComplete      func(totalSteps int)
	OnNoSolution        func()
	OnAgentConnected    func(id int)
	OnAgentDisconnected func(id int)
}

// Status is a point-in-time snapshot of the session.
type Status struct {
	Phase         Phase
	StepCount     int
	CurrentSolver int
	HasBoard      bool
	Solvable      bool
	Board         [][]int
	Connected     []int
}

type connectRequest struct {
	id    int
	conn  net.Conn
	reply chan error
}

type agentMove struct {
	id        int
	direction puzzle.Direction
}

type loadRequest struct {
	board puzzle.Board
	reply chan Status
}

// Session is the turn coordinator. Connection workers and the HTTP
// layer submit events through channels; a single Run goroutine owns
// every field below the channel block, so there is no concurrent
// mutation anywhere.
type Session struct {
	callbacks Callbacks

	connects    chan connectRequest
	disconnects chan int
	moves       chan agentMove
	loads       chan loadRequest
	statusReqs  chan chan Status

	board         puzzle.Board
	hasBoard      bool
	solvable      bool
	stepCount     int
	currentSolver int
	running       bool
	complete      bool
	conns         map[int]net.Conn
}

func NewSession(callbacks Callbacks) *Session {
	return &Session{
		callbacks:     callbacks,
		connects:      make(chan connectRequest),
		disconnects:   make(chan int, 4),
		moves:         make(chan agentMove, 16),
		loads:         make(chan loadRequest),
		statusReqs:    make(chan chan Status),
		currentSolver: 1,
		conns:         make(map[int]net.Conn),
	}
}

// Run drains the event channels until done closes. It is the only
// goroutine that touches session state.
func (s *Session) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case req := <-s.connects:
			req.reply <- s.handleConnect(req.id, req.conn)
		case id := <-s.disconnects:
			s.handleDisconnect(id)
		case move := <-s.moves:
			s.handleMove(move)
		case req := <-s.loads:
			s.handleLoad(req.board)
			req.reply <- s.snapshot()
		case reply := <-s.statusReqs:
			reply <- s.snapshot()
		}
	}
}

// Connect registers an agent connection under the given identifier and
// sends the WELCOME acknowledgment. The caller keeps reading from the
// connection only when Connect returns nil.
func (s *Session) Connect(id int, conn net.Conn) error {
	req := connectRequest{id: id, conn: conn, reply: make(chan error, 1)}
	s.connects <- req
	return <-req.reply
}

// Disconnect drops the agent's registration after its reader exits.
func (s *Session) Disconnect(id int) {
	s.disconnects <- id
}

// SubmitMove forwards a received move into the coordination loop.
func (s *Session) SubmitMove(id int, direction puzzle.Direction) {
	s.moves <- agentMove{id: id, direction: direction}
}

// LoadBoard replaces the authoritative board, resetting the step
// counter and the turn. The swap is serialized with in-flight move
// processing, so a move can never land on a board that was just
// replaced.
func (s *Session) LoadBoard(board puzzle.Board) Status {
	req := loadRequest{board: board, reply: make(chan Status, 1)}
	s.loads <- req
	return <-req.reply
}

func (s *Session) Status() Status {
	reply := make(chan Status, 1)
	s.statusReqs <- reply
	return <-reply
}

func (s *Session) phase() Phase {
	switch {
	case s.complete:
		return PhaseComplete
	case s.running:
		return PhaseRunning
	case s.hasBoard && s.solvable:
		return PhaseAwaitingAgents
	default:
		return PhaseIdle
	}
}

func (s *Session) snapshot() Status {
	status := Status{
		Phase:         s.phase(),
		StepCount:     s.stepCount,
		CurrentSolver: s.currentSolver,
		HasBoard:      s.hasBoard,
		Solvable:      s.solvable,
	}
	if s.hasBoard {
		status.Board = s.board.Grid()
	}
	for id := 1; id <= 2; id++ {
		if _, ok := s.conns[id]; ok {
			status.Connected = append(status.Connected, id)
		}
	}
	return status
}

func (s *Session) handleConnect(id int, conn net.Conn) error {
	if id != 1 && id != 2 {
		return fmt.Errorf("invalid solver id %d", id)
	}
	if _, taken := s.conns[id]; taken {
		return fmt.Errorf("solver %d is already connected", id)
	}
	if err := protocol.Write(conn, protocol.Welcome{SolverID: id}); err != nil {
		return fmt.Errorf("welcome solver %d: %w", id, err)
	}
	s.conns[id] = conn
	log.Printf("[orchestrator] solver %d connected (%s)", id, conn.RemoteAddr())
	if s.callbacks.OnAgentConnected != nil {
		s.callbacks.OnAgentConnected(id)
	}
	s.maybeStart()
	return nil
}

func (s *Session) handleDisconnect(id int) {
	if _, ok := s.conns[id]; !ok {
		return
	}
	delete(s.conns, id)
	log.Printf("[orchestrator] solver %d disconnected", id)
	if s.callbacks.OnAgentDisconnected != nil {
		s.callbacks.OnAgentDisconnected(id)
	}
}

func (s *Session) handleLoad(board puzzle.Board) {
	s.board = board
	s.hasBoard = true
	s.solvable = board.Solvable()
	s.stepCount = 0
	s.currentSolver = 1
	s.running = false
	s.complete = false
	log.Printf("[orchestrator] loaded %dx%d board, solvable=%v", board.Size(), board.Size(), s.solvable)
	if s.callbacks.OnBoardLoaded != nil {
		s.callbacks.OnBoardLoaded(board.Clone(), s.solvable)
	}
	if !s.solvable {
		s.broadcast(protocol.NoSolution{})
		if s.callbacks.OnNoSolution != nil {
			s.callbacks.OnNoSolution()
		}
		return
	}
	s.maybeStart()
}

func (s *Session) maybeStart() {
	if s.running || s.complete || !s.hasBoard || !s.solvable {
		return
	}
	if len(s.conns) < 2 {
		return
	}
	s.running = true
	s.currentSolver = 1
	log.Printf("[orchestrator] game started")
	s.notifyNextSolver()
}

func (s *Session) handleMove(move agentMove) {
	if !s.running {
		log.Printf("[orchestrator] dropping move from solver %d: game not running", move.id)
		return
	}
	// Out-of-turn and illegal moves are dropped without a reply on the
	// wire; the offending agent is only visible in the log.
	if move.id != s.currentSolver {
		log.Printf("[orchestrator] solver %d moved out of turn (turn belongs to solver %d)", move.id, s.currentSolver)
		return
	}
	if !s.board.Apply(move.direction) {
		log.Printf("[orchestrator] solver %d sent illegal move %s", move.id, move.direction)
		return
	}
	s.stepCount++
	log.Printf("[orchestrator] solver %d moved %s (step #%d)", move.id, move.direction, s.stepCount)
	if s.callbacks.OnStep != nil {
		s.callbacks.OnStep(s.stepCount, s.board.Clone())
	}
	if s.board.IsGoal() {
		s.running = false
		s.complete = true
		log.Printf("[orchestrator] puzzle solved in %d steps", s.stepCount)
		s.broadcast(protocol.Solved{TotalSteps: s.stepCount})
		if s.callbacks.OnGameComplete != nil {
			s.callbacks.OnGameComplete(s.stepCount)
		}
		return
	}
	if s.currentSolver == 1 {
		s.currentSolver = 2
	} else {
		s.currentSolver = 1
	}
	s.notifyNextSolver()
}

func (s *Session) notifyNextSolver() {
	conn, ok := s.conns[s.currentSolver]
	if !ok {
		log.Printf("[orchestrator] solver %d not connected, game stalled", s.currentSolver)
		s.running = false
		return
	}
	if err := protocol.Write(conn, protocol.State{StepNum: s.stepCount, Board: s.board.Grid()}); err != nil {
		log.Printf("[orchestrator] send state to solver %d: %v", s.currentSolver, err)
		return
	}
	if err := protocol.Write(conn, protocol.YourTurn{SolverID: s.currentSolver}); err != nil {
		log.Printf("[orchestrator] send turn to solver %d: %v", s.currentSolver, err)
	}
}

func (s *Session) broadcast(msg protocol.Message) {
	for id, conn := range s.conns {
		if err := protocol.Write(conn, msg); err != nil {
			log.Printf("[orchestrator] broadcast %s to solver %d: %v", msg.Kind(), id, err)
		}
	}
}
