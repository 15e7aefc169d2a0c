package puzzle

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseValidFile(t *testing.T) {
	board, err := Parse("1,2,3\n4,0,6\n7,5,8\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if board.Size() != 3 {
		t.Fatalf("expected size 3, got %d", board.Size())
	}
	if row, col := board.BlankPosition(); row != 1 || col != 1 {
		t.Fatalf("expected blank at (1,1), got (%d,%d)", row, col)
	}
}

func TestParseSkipsBlankLinesAndSpaces(t *testing.T) {
	board, err := Parse("\n 1 , 2 \n\n 3 , 0 \n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if board.At(1, 0) != 3 {
		t.Fatalf("expected 3 at (1,0), got %d", board.At(1, 0))
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := Parse("1,2\n3,x\n"); err == nil {
		t.Fatalf("expected error for non-numeric tile")
	}
	if _, err := Parse("1,2,3\n4,0,6\n"); err == nil {
		t.Fatalf("expected error for non-square grid")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzle.txt")
	if err := os.WriteFile(path, []byte("1,2,3\n4,0,6\n7,5,8\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	board, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !board.Solvable() {
		t.Fatalf("expected fixture file to be solvable")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
