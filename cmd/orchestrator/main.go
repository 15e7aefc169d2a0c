package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erzhuochen/npuzzle/internal/orchestrator"
	"github.com/erzhuochen/npuzzle/internal/protocol"
	"github.com/erzhuochen/npuzzle/internal/puzzle"
)

func main() {
	var (
		port       = flag.Int("port", protocol.DefaultPort, "TCP port for solver agents")
		httpAddr   = flag.String("http", ":8080", "listen address for the observer API")
		puzzleFile = flag.String("puzzle", "puzzle.txt", "puzzle file to load")
		watch      = flag.Bool("watch", true, "reload the puzzle file when it changes")
	)
	flag.Parse()

	hub := orchestrator.NewHub()
	session := orchestrator.NewSession(hub.SessionCallbacks())
	server := orchestrator.NewServer(session)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx.Done())
	go session.Run(ctx.Done())

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		log.Fatalf("[orchestrator] listen on :%d: %v", *port, err)
	}
	go func() {
		if err := server.Serve(ln); err != nil {
			log.Printf("[orchestrator] agent server: %v", err)
		}
	}()
	log.Printf("[orchestrator] waiting for solvers on :%d", *port)

	if *watch {
		// The watcher picks the file up on its first tick, so no
		// explicit initial load is needed.
		watcher := orchestrator.FileWatcher{
			Path: *puzzleFile,
			Load: func(board puzzle.Board) { session.LoadBoard(board) },
		}
		go watcher.Run(ctx.Done())
	} else if *puzzleFile != "" {
		board, err := puzzle.LoadFile(*puzzleFile)
		switch {
		case err == nil:
			session.LoadBoard(board)
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("[orchestrator] %s not found, load a board over the API", *puzzleFile)
		default:
			log.Printf("[orchestrator] %v", err)
		}
	}

	httpServer := &http.Server{
		Addr:    *httpAddr,
		Handler: orchestrator.NewRouter(session, hub),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()
	log.Printf("[orchestrator] observer API on %s", *httpAddr)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	select {
	case <-sigCtx.Done():
		log.Printf("[orchestrator] shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			log.Printf("[orchestrator] observer API error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[orchestrator] graceful shutdown failed: %v", err)
	}
	ln.Close()
	cancel()
}
