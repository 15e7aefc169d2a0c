// Package protocol defines the messages exchanged between the
// orchestrator and the solver agents and their framing on a TCP
// stream: a 4-byte big-endian length prefix followed by a UTF-8 JSON
// payload carrying a "type" tag plus the fields of that kind.
package protocol

import "github.com/erzhuochen/npuzzle/internal/puzzle"

// DefaultPort is the orchestrator's TCP port unless overridden.
const DefaultPort = 9527

// Kind values match the "type" tag on the wire.
type Kind string

const (
	KindConnect    Kind = "CONNECT"
	KindWelcome    Kind = "WELCOME"
	KindState      Kind = "STATE"
	KindYourTurn   Kind = "YOUR_TURN"
	KindMove       Kind = "MOVE"
	KindSolved     Kind = "SOLVED"
	KindNoSolution Kind = "NOSOLUTION"
	KindError      Kind = "ERROR"
)

// Message is a closed set of per-kind structs so that a kind can only
// carry its own fields.
type Message interface {
	Kind() Kind
}

// Connect is the agent's registration request.
type Connect struct {
	SolverID int
}

// Welcome acknowledges a registration.
type Welcome struct {
	SolverID int
}

// State synchronizes the authoritative board to an agent.
type State struct {
	StepNum int
	Board   [][]int
}

// YourTurn tells an agent to compute and send one move.
type YourTurn struct {
	SolverID int
}

// Move is an agent's single-step answer.
type Move struct {
	SolverID  int
	Direction puzzle.Direction
}

// Solved announces that the goal was reached.
type Solved struct {
	TotalSteps int
}

// NoSolution announces that the loaded puzzle is unsolvable.
type NoSolution struct{}

// Error carries a protocol-level error description.
type Error struct {
	Text string
}

func (Connect) Kind() Kind    { return KindConnect }
func (Welcome) Kind() Kind    { return KindWelcome }
func (State) Kind() Kind      { return KindState }
func (YourTurn) Kind() Kind   { return KindYourTurn }
func (Move) Kind() Kind       { return KindMove }
func (Solved) Kind() Kind     { return KindSolved }
func (NoSolution) Kind() Kind { return KindNoSolution }
func (Error) Kind() Kind      { return KindError }
