package puzzle

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Parse reads a puzzle from text: one comma-separated row per line,
// 0 for the blank. Blank lines are skipped.
func Parse(text string) (Board, error) {
	var grid [][]int
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		row := make([]int, 0, len(fields))
		for _, field := range fields {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return Board{}, fmt.Errorf("line %d: bad tile value %q", lineNo+1, strings.TrimSpace(field))
			}
			row = append(row, v)
		}
		grid = append(grid, row)
	}
	if len(grid) == 0 {
		return Board{}, fmt.Errorf("puzzle file is empty")
	}
	return New(grid)
}

// LoadFile parses the puzzle file at path.
func LoadFile(path string) (Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Board{}, fmt.Errorf("read puzzle file: %w", err)
	}
	board, err := Parse(string(data))
	if err != nil {
		return Board{}, fmt.Errorf("%s: %w", path, err)
	}
	return board, nil
}
