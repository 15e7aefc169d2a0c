// Package agent implements a solver node: it registers with the
// orchestrator, waits for its turn and answers each turn notification
// with the first move of a freshly computed optimal plan.
package agent

import (
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"github.com/erzhuochen/npuzzle/internal/protocol"
	"github.com/erzhuochen/npuzzle/internal/puzzle"
	"github.com/erzhuochen/npuzzle/internal/solver"
)

type Agent struct {
	id       int
	search   *solver.IDAStar
	maxDepth int
	conn     net.Conn
	board    puzzle.Board
	hasBoard bool
}

func New(id int, heuristic solver.Heuristic, maxDepth int) (*Agent, error) {
	if id != 1 && id != 2 {
		return nil, fmt.Errorf("solver id must be 1 or 2, got %d", id)
	}
	if maxDepth <= 0 {
		maxDepth = solver.DefaultMaxDepth
	}
	return &Agent{id: id, search: solver.NewIDAStar(heuristic), maxDepth: maxDepth}, nil
}

// Connect dials the orchestrator, sends the registration request and
// waits for the WELCOME acknowledgment. Anything else is a connection
// failure.
func (a *Agent) Connect(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if err := protocol.Write(conn, protocol.Connect{SolverID: a.id}); err != nil {
		conn.Close()
		return err
	}
	reply, err := protocol.Read(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("connection rejected: %w", err)
	}
	if _, ok := reply.(protocol.Welcome); !ok {
		conn.Close()
		if errMsg, isErr := reply.(protocol.Error); isErr {
			return fmt.Errorf("connection rejected: %s", errMsg.Text)
		}
		return fmt.Errorf("connection rejected: expected WELCOME, got %s", reply.Kind())
	}
	a.conn = conn
	log.Printf("[agent %d] connected to %s", a.id, addr)
	return nil
}

// Run handles messages until the connection closes. The agent never
// disconnects on its own: after SOLVED or NOSOLUTION it keeps waiting
// for the next puzzle.
func (a *Agent) Run() error {
	defer a.conn.Close()
	log.Printf("[agent %d] waiting for the game to start", a.id)
	for {
		msg, err := protocol.Read(a.conn)
		if err != nil {
			if err == io.EOF {
				log.Printf("[agent %d] connection closed", a.id)
				return nil
			}
			return err
		}
		a.handle(msg)
	}
}

func (a *Agent) handle(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.State:
		board, err := puzzle.New(m.Board)
		if err != nil {
			log.Printf("[agent %d] bad board in STATE: %v", a.id, err)
			return
		}
		a.board = board
		a.hasBoard = true
		log.Printf("[agent %d] received state (step %d)", a.id, m.StepNum)
	case protocol.YourTurn:
		a.makeMove()
	case protocol.Solved:
		log.Printf("[agent %d] puzzle solved in %d steps, waiting for a new puzzle", a.id, m.TotalSteps)
	case protocol.NoSolution:
		log.Printf("[agent %d] puzzle has no solution, waiting for a new puzzle", a.id)
	case protocol.Error:
		log.Printf("[agent %d] error from orchestrator: %s", a.id, m.Text)
	default:
		log.Printf("[agent %d] ignoring %s", a.id, msg.Kind())
	}
}

func (a *Agent) makeMove() {
	if !a.hasBoard {
		log.Printf("[agent %d] cannot move: no board state yet", a.id)
		return
	}
	if a.board.IsGoal() {
		log.Printf("[agent %d] board is already solved", a.id)
		return
	}
	start := time.Now()
	solution, err := a.search.Solve(a.board, a.maxDepth)
	if err != nil {
		log.Printf("[agent %d] no move: %v", a.id, err)
		return
	}
	log.Printf("[agent %d] %d steps remain, computed in %.3fs (%d nodes)",
		a.id, len(solution), time.Since(start).Seconds(), a.search.NodesExpanded())
	if err := protocol.Write(a.conn, protocol.Move{SolverID: a.id, Direction: solution[0]}); err != nil {
		log.Printf("[agent %d] send move: %v", a.id, err)
	}
}
