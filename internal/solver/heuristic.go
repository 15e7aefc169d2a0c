// Package solver finds optimal sliding-tile move sequences with
// iterative-deepening A* over admissible heuristics.
package solver

import "github.com/erzhuochen/npuzzle/internal/puzzle"

// Heuristic estimates the remaining moves to the goal. Estimates must
// never exceed the true distance or the search loses optimality.
type Heuristic func(puzzle.Board) int

// Manhattan sums, over all non-blank tiles, the horizontal plus
// vertical distance from the tile to its goal cell.
func Manhattan(b puzzle.Board) int {
	size := b.Size()
	distance := 0
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			v := b.At(r, c)
			if v == 0 {
				continue
			}
			goalRow := (v - 1) / size
			goalCol := (v - 1) % size
			distance += abs(r-goalRow) + abs(c-goalCol)
		}
	}
	return distance
}

// LinearConflict is Manhattan plus 2 for every pair of tiles that sit
// in their shared goal row (or column) in reversed order. Resolving
// such a pair costs at least two moves beyond the Manhattan estimate,
// so the heuristic stays admissible.
func LinearConflict(b puzzle.Board) int {
	size := b.Size()
	conflict := 0

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			v := b.At(r, c)
			if v == 0 || (v-1)/size != r {
				continue
			}
			for k := c + 1; k < size; k++ {
				other := b.At(r, k)
				if other == 0 || (other-1)/size != r {
					continue
				}
				if (v-1)%size > (other-1)%size {
					conflict += 2
				}
			}
		}
	}

	for c := 0; c < size; c++ {
		for r := 0; r < size; r++ {
			v := b.At(r, c)
			if v == 0 || (v-1)%size != c {
				continue
			}
			for k := r + 1; k < size; k++ {
				other := b.At(k, c)
				if other == 0 || (other-1)%size != c {
					continue
				}
				if (v-1)/size > (other-1)/size {
					conflict += 2
				}
			}
		}
	}

	return Manhattan(b) + conflict
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
