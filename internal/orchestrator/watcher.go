package orchestrator

import (
	"log"
	"os"
	"time"

	"github.com/erzhuochen/npuzzle/internal/puzzle"
)

// FileWatcher polls a puzzle file and hands freshly written boards to
// Load. A short settle delay after the mtime changes lets slow writers
// finish before the file is parsed.
type FileWatcher struct {
	Path     string
	Interval time.Duration
	Settle   time.Duration
	Load     func(puzzle.Board)
}

func (w FileWatcher) Run(done <-chan struct{}) {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Second
	}
	settle := w.Settle
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var lastMod time.Time
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			info, err := os.Stat(w.Path)
			if err != nil {
				continue
			}
			if !info.ModTime().After(lastMod) {
				continue
			}
			lastMod = info.ModTime()
			time.Sleep(settle)
			board, err := puzzle.LoadFile(w.Path)
			if err != nil {
				log.Printf("[watch] %v", err)
				continue
			}
			log.Printf("[watch] loading %s", w.Path)
			w.Load(board)
		}
	}
}
