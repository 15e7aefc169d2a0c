package orchestrator

import (
	"errors"
	"io"
	"log"
	"net"

	"github.com/erzhuochen/npuzzle/internal/protocol"
)

// Server accepts agent connections and runs one reader goroutine per
// connection. Workers never touch session state; they forward events
// into the session's coordination loop.
type Server struct {
	session *Session
}

func NewServer(session *Session) *Server {
	return &Server{session: session}
}

// Serve accepts connections until the listener is closed.
func (srv *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go srv.handleConn(conn)
	}
}

func (srv *Server) handleConn(conn net.Conn) {
	msg, err := protocol.Read(conn)
	if err != nil {
		conn.Close()
		return
	}
	connect, ok := msg.(protocol.Connect)
	if !ok {
		log.Printf("[orchestrator] %s: expected CONNECT, got %s", conn.RemoteAddr(), msg.Kind())
		_ = protocol.Write(conn, protocol.Error{Text: "expected CONNECT"})
		conn.Close()
		return
	}
	if err := srv.session.Connect(connect.SolverID, conn); err != nil {
		log.Printf("[orchestrator] %s: %v", conn.RemoteAddr(), err)
		_ = protocol.Write(conn, protocol.Error{Text: err.Error()})
		conn.Close()
		return
	}
	defer func() {
		srv.session.Disconnect(connect.SolverID)
		conn.Close()
	}()
	for {
		msg, err := protocol.Read(conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("[orchestrator] read from solver %d: %v", connect.SolverID, err)
			}
			return
		}
		move, ok := msg.(protocol.Move)
		if !ok {
			log.Printf("[orchestrator] ignoring %s from solver %d", msg.Kind(), connect.SolverID)
			continue
		}
		srv.session.SubmitMove(move.SolverID, move.Direction)
	}
}
