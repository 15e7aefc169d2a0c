package puzzle

import "testing"

// The fixture from the original puzzle set: solvable, two moves from
// the goal.
func fixtureBoard(t *testing.T) Board {
	t.Helper()
	b, err := New([][]int{{1, 2, 3}, {4, 0, 6}, {7, 5, 8}})
	if err != nil {
		t.Fatalf("fixture board: %v", err)
	}
	return b
}

func TestNewRejectsInvalidGrids(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for empty grid")
	}
	if _, err := New([][]int{{1, 2, 3}, {4, 0, 6}}); err == nil {
		t.Fatalf("expected error for non-square grid")
	}
	if _, err := New([][]int{{1, 2}, {3, 0, 4}}); err == nil {
		t.Fatalf("expected error for ragged grid")
	}
	if _, err := New([][]int{{1, 1}, {2, 0}}); err == nil {
		t.Fatalf("expected error for duplicate tile")
	}
	if _, err := New([][]int{{1, 2}, {3, 4}}); err == nil {
		t.Fatalf("expected error for grid without a blank")
	}
}

func TestBlankPositionAndValidMoves(t *testing.T) {
	b := fixtureBoard(t)
	row, col := b.BlankPosition()
	if row != 1 || col != 1 {
		t.Fatalf("expected blank at (1,1), got (%d,%d)", row, col)
	}
	if got := len(b.ValidMoves()); got != 4 {
		t.Fatalf("expected 4 valid moves for a center blank, got %d", got)
	}

	corner, err := New([][]int{{0, 1}, {2, 3}})
	if err != nil {
		t.Fatalf("corner board: %v", err)
	}
	moves := corner.ValidMoves()
	if len(moves) != 2 {
		t.Fatalf("expected 2 valid moves for a corner blank, got %d", len(moves))
	}
	for _, d := range moves {
		if d == Up || d == Left {
			t.Fatalf("move %s should not be valid for a top-left blank", d)
		}
	}
}

func TestApplyThenOppositeRestoresBoard(t *testing.T) {
	b := fixtureBoard(t)
	for _, d := range b.ValidMoves() {
		mutated := b.Clone()
		if !mutated.Apply(d) {
			t.Fatalf("expected %s to be a valid move", d)
		}
		if mutated.Equal(b) {
			t.Fatalf("expected %s to change the board", d)
		}
		if !mutated.Apply(d.Opposite()) {
			t.Fatalf("expected %s to be reversible", d)
		}
		if !mutated.Equal(b) {
			t.Fatalf("applying %s then %s did not restore the board", d, d.Opposite())
		}
	}
}

func TestApplyRejectsOffBoardMoves(t *testing.T) {
	b, err := New([][]int{{0, 1}, {2, 3}})
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	before := b.Clone()
	if b.Apply(Up) {
		t.Fatalf("expected UP to be rejected for a top-left blank")
	}
	if !b.Equal(before) {
		t.Fatalf("rejected move must leave the board unchanged")
	}
}

func TestIsGoal(t *testing.T) {
	if !Goal(3).IsGoal() {
		t.Fatalf("Goal(3) must be the goal state")
	}
	if fixtureBoard(t).IsGoal() {
		t.Fatalf("fixture board is not the goal state")
	}
	almost, err := New([][]int{{1, 2, 3}, {4, 5, 6}, {7, 0, 8}})
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if almost.IsGoal() {
		t.Fatalf("blank must be in the last cell of the goal state")
	}
}

func TestSolvableKnownBoards(t *testing.T) {
	// Fixture flattens to 1,2,3,4,6,7,5,8: two inversions, odd size.
	if !fixtureBoard(t).Solvable() {
		t.Fatalf("fixture board must be solvable")
	}

	swapped, err := New([][]int{{1, 2, 3}, {4, 5, 6}, {8, 7, 0}})
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if swapped.Solvable() {
		t.Fatalf("board with one swapped pair must be unsolvable")
	}

	if !Goal(4).Solvable() {
		t.Fatalf("4x4 goal must be solvable")
	}

	// Sam Loyd's 14-15 puzzle.
	loyd, err := New([][]int{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 15, 14, 0},
	})
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if loyd.Solvable() {
		t.Fatalf("the 14-15 puzzle must be unsolvable")
	}
}

// Exhaustive check of the parity theorem on 3x3: a permutation is
// solvable exactly when BFS from the goal reaches it.
func TestSolvableAgreesWithReachability(t *testing.T) {
	reachable := reachableStates3x3()
	if len(reachable) != 181440 {
		t.Fatalf("expected 181440 reachable 3x3 states, got %d", len(reachable))
	}

	cells := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	checked := 0
	permute(cells, 0, func(perm []int) {
		grid := [][]int{perm[0:3:3], perm[3:6:6], perm[6:9:9]}
		board, err := New(grid)
		if err != nil {
			t.Fatalf("permutation rejected: %v", err)
		}
		var key [9]byte
		for i, v := range perm {
			key[i] = byte(v)
		}
		_, viaBFS := reachable[key]
		if board.Solvable() != viaBFS {
			t.Fatalf("solvability disagrees with reachability for %v", perm)
		}
		checked++
	})
	if checked != 362880 {
		t.Fatalf("expected to check 362880 permutations, checked %d", checked)
	}
}

func reachableStates3x3() map[[9]byte]struct{} {
	start := Goal(3)
	var startKey [9]byte
	for i := 0; i < 9; i++ {
		startKey[i] = byte(start.At(i/3, i%3))
	}
	seen := map[[9]byte]struct{}{startKey: {}}
	frontier := []Board{start}
	for len(frontier) > 0 {
		var next []Board
		for _, b := range frontier {
			for _, d := range b.ValidMoves() {
				nb := b.Clone()
				nb.Apply(d)
				var key [9]byte
				for i := 0; i < 9; i++ {
					key[i] = byte(nb.At(i/3, i%3))
				}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return seen
}

func permute(cells []int, k int, visit func([]int)) {
	if k == len(cells) {
		visit(cells)
		return
	}
	for i := k; i < len(cells); i++ {
		cells[k], cells[i] = cells[i], cells[k]
		permute(cells, k+1, visit)
		cells[k], cells[i] = cells[i], cells[k]
	}
}

func TestGridRoundTrip(t *testing.T) {
	b := fixtureBoard(t)
	rebuilt, err := New(b.Grid())
	if err != nil {
		t.Fatalf("rebuild from grid: %v", err)
	}
	if !rebuilt.Equal(b) {
		t.Fatalf("grid round trip changed the board")
	}
}
