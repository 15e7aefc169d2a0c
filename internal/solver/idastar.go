package solver

import (
	"errors"
	"math"

	"github.com/erzhuochen/npuzzle/internal/puzzle"
)

// DefaultMaxDepth bounds the threshold growth. 80 covers the hardest
// 4x4 instances (worst case is 80 moves).
const DefaultMaxDepth = 80

var (
	// ErrNoSolution means the search proved no path to the goal exists.
	ErrNoSolution = errors.New("puzzle has no solution")
	// ErrDepthExceeded means the search gave up at the depth bound; the
	// puzzle may still be solvable with a deeper search.
	ErrDepthExceeded = errors.New("no solution found within depth bound")
	// ErrAlreadySolved is returned by NextMove when there is nothing
	// left to do.
	ErrAlreadySolved = errors.New("board is already solved")
)

const unreachable = math.MaxInt

// IDAStar runs iterative-deepening A*: repeated depth-first searches
// bounded by an f-value threshold that is raised to the smallest
// exceeding value after each failed iteration.
type IDAStar struct {
	heuristic Heuristic
	nodes     int
}

func NewIDAStar(h Heuristic) *IDAStar {
	return &IDAStar{heuristic: h}
}

// NodesExpanded reports how many nodes the last Solve visited.
func (s *IDAStar) NodesExpanded() int {
	return s.nodes
}

// Solve returns an optimal move sequence from board to the goal, an
// empty sequence when board is already solved, ErrNoSolution when the
// goal is unreachable, or ErrDepthExceeded once the threshold passes
// maxDepth.
func (s *IDAStar) Solve(board puzzle.Board, maxDepth int) ([]puzzle.Direction, error) {
	if board.IsGoal() {
		return []puzzle.Direction{}, nil
	}
	s.nodes = 0
	threshold := s.heuristic(board)
	for threshold <= maxDepth {
		solution, next := s.search(board, 0, threshold, nil, 0, false)
		if solution != nil {
			return solution, nil
		}
		if next == unreachable {
			return nil, ErrNoSolution
		}
		// next is the smallest f-value that exceeded the threshold, so
		// the threshold strictly increases every iteration.
		threshold = next
	}
	return nil, ErrDepthExceeded
}

// search is the bounded depth-first step. It returns either a complete
// solution path or the minimum f-value that exceeded the threshold
// (unreachable when no child was explored).
func (s *IDAStar) search(board puzzle.Board, g, threshold int, path []puzzle.Direction, last puzzle.Direction, haveLast bool) ([]puzzle.Direction, int) {
	s.nodes++
	f := g + s.heuristic(board)
	if f > threshold {
		return nil, f
	}
	if board.IsGoal() {
		return path, 0
	}
	min := unreachable
	for _, d := range board.ValidMoves() {
		// Undoing the previous move can never be part of a shortest
		// path.
		if haveLast && d == last.Opposite() {
			continue
		}
		next := board.Clone()
		next.Apply(d)
		// The capped append copies the prefix, so sibling branches
		// never share a path buffer.
		solution, exceeded := s.search(next, g+1, threshold, append(path[:len(path):len(path)], d), d, true)
		if solution != nil {
			return solution, 0
		}
		if exceeded < min {
			min = exceeded
		}
	}
	return nil, min
}

// NextMove recomputes a full optimal plan and returns only its first
// move. There is no plan reuse across calls: the other agent may have
// changed the board since this agent last moved.
func (s *IDAStar) NextMove(board puzzle.Board, maxDepth int) (puzzle.Direction, error) {
	solution, err := s.Solve(board, maxDepth)
	if err != nil {
		return 0, err
	}
	if len(solution) == 0 {
		return 0, ErrAlreadySolved
	}
	return solution[0], nil
}
