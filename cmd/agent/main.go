package main

import (
	"flag"
	"log"
	"net"
	"strconv"

	"github.com/erzhuochen/npuzzle/internal/agent"
	"github.com/erzhuochen/npuzzle/internal/protocol"
	"github.com/erzhuochen/npuzzle/internal/solver"
)

func main() {
	var (
		id        = flag.Int("id", 0, "solver id (1 or 2)")
		host      = flag.String("host", "127.0.0.1", "orchestrator host")
		port      = flag.Int("port", protocol.DefaultPort, "orchestrator port")
		manhattan = flag.Bool("manhattan", false, "use plain Manhattan distance instead of linear conflict")
		maxDepth  = flag.Int("max-depth", solver.DefaultMaxDepth, "depth bound for the search")
	)
	flag.Parse()

	heuristic := solver.Heuristic(solver.LinearConflict)
	name := "linear conflict"
	if *manhattan {
		heuristic = solver.Manhattan
		name = "manhattan"
	}

	a, err := agent.New(*id, heuristic, *maxDepth)
	if err != nil {
		log.Fatalf("[agent] %v", err)
	}

	addr := net.JoinHostPort(*host, strconv.Itoa(*port))
	log.Printf("[agent %d] target %s, heuristic %s, max depth %d", *id, addr, name, *maxDepth)
	if err := a.Connect(addr); err != nil {
		log.Fatalf("[agent %d] %v", *id, err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("[agent %d] %v", *id, err)
	}
}
