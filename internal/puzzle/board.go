// Package puzzle implements the n×n sliding-tile board: move
// application, goal detection and the inversion-parity solvability
// test.
package puzzle

import (
	"fmt"
	"strings"
)

// Board holds an n×n grid of tiles as a flat slice. Value 0 is the
// blank. Boards have value semantics: Clone before mutating when the
// previous state must stay valid.
type Board struct {
	size  int
	cells []int
	blank int
}

// New validates a raw grid and builds a Board from it. The grid must
// be square and hold every value 0..n²-1 exactly once.
func New(grid [][]int) (Board, error) {
	size := len(grid)
	if size == 0 {
		return Board{}, fmt.Errorf("empty grid")
	}
	b := Board{size: size, cells: make([]int, 0, size*size), blank: -1}
	for _, row := range grid {
		if len(row) != size {
			return Board{}, fmt.Errorf("grid must be square: expected %d columns, got %d", size, len(row))
		}
		b.cells = append(b.cells, row...)
	}
	seen := make([]bool, size*size)
	for i, v := range b.cells {
		if v < 0 || v >= size*size {
			return Board{}, fmt.Errorf("tile value %d out of range for %dx%d board", v, size, size)
		}
		if seen[v] {
			return Board{}, fmt.Errorf("duplicate tile value %d", v)
		}
		seen[v] = true
		if v == 0 {
			b.blank = i
		}
	}
	return b, nil
}

// Goal returns the solved board for the given size: 1..n²-1 in
// row-major order with the blank in the last cell.
func Goal(size int) Board {
	b := Board{size: size, cells: make([]int, size*size)}
	for i := 0; i < size*size-1; i++ {
		b.cells[i] = i + 1
	}
	b.blank = size*size - 1
	return b
}

func (b Board) Size() int {
	return b.size
}

func (b Board) At(row, col int) int {
	return b.cells[row*b.size+col]
}

func (b Board) BlankPosition() (row, col int) {
	return b.blank / b.size, b.blank % b.size
}

func (b Board) Clone() Board {
	clone := Board{size: b.size, blank: b.blank}
	clone.cells = make([]int, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

// Grid returns the board as a fresh rectangular slice, the shape used
// on the wire and in puzzle files.
func (b Board) Grid() [][]int {
	rows := make([][]int, b.size)
	for r := 0; r < b.size; r++ {
		rows[r] = make([]int, b.size)
		copy(rows[r], b.cells[r*b.size:(r+1)*b.size])
	}
	return rows
}

func (b Board) Equal(other Board) bool {
	if b.size != other.size {
		return false
	}
	for i, v := range b.cells {
		if v != other.cells[i] {
			return false
		}
	}
	return true
}

// ValidMoves reports the directions the blank can move without leaving
// the board.
func (b Board) ValidMoves() []Direction {
	row, col := b.BlankPosition()
	moves := make([]Direction, 0, 4)
	if row > 0 {
		moves = append(moves, Up)
	}
	if row < b.size-1 {
		moves = append(moves, Down)
	}
	if col > 0 {
		moves = append(moves, Left)
	}
	if col < b.size-1 {
		moves = append(moves, Right)
	}
	return moves
}

// Apply swaps the blank with the adjacent tile in the given direction.
// It is the only mutating operation on a Board. Returns false and
// leaves the board unchanged when the move would leave the grid.
func (b *Board) Apply(d Direction) bool {
	row, col := b.BlankPosition()
	dr, dc := d.delta()
	newRow, newCol := row+dr, col+dc
	if newRow < 0 || newRow >= b.size || newCol < 0 || newCol >= b.size {
		return false
	}
	target := newRow*b.size + newCol
	b.cells[b.blank] = b.cells[target]
	b.cells[target] = 0
	b.blank = target
	return true
}

func (b Board) IsGoal() bool {
	for i, v := range b.cells {
		if i == len(b.cells)-1 {
			return v == 0
		}
		if v != i+1 {
			return false
		}
	}
	return false
}

// Solvable applies the inversion-parity theorem. For odd n the puzzle
// is solvable iff the inversion count of the flattened non-blank
// sequence is even. For even n it is solvable iff inversions plus the
// blank's row counted from the bottom (1-based) is odd.
func (b Board) Solvable() bool {
	inversions := b.inversions()
	if b.size%2 == 1 {
		return inversions%2 == 0
	}
	blankRow, _ := b.BlankPosition()
	rowFromBottom := b.size - blankRow
	return (inversions+rowFromBottom)%2 == 1
}

func (b Board) inversions() int {
	flat := make([]int, 0, len(b.cells)-1)
	for _, v := range b.cells {
		if v != 0 {
			flat = append(flat, v)
		}
	}
	inversions := 0
	for i := 0; i < len(flat); i++ {
		for j := i + 1; j < len(flat); j++ {
			if flat[i] > flat[j] {
				inversions++
			}
		}
	}
	return inversions
}

func (b Board) String() string {
	width := len(fmt.Sprint(b.size*b.size - 1))
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			v := b.At(r, c)
			if v == 0 {
				sb.WriteString(strings.Repeat(" ", width))
			} else {
				fmt.Fprintf(&sb, "%*d", width, v)
			}
		}
	}
	return sb.String()
}
