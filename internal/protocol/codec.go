package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/erzhuochen/npuzzle/internal/puzzle"
)

// Boards are tiny; anything close to this limit is a corrupt frame.
const maxPayloadBytes = 1 << 20

// envelope is the flat wire shape. Optional numeric fields are
// pointers so a present zero (step_num on the first STATE) survives a
// round trip.
type envelope struct {
	Type       Kind    `json:"type"`
	SolverID   *int    `json:"solver_id,omitempty"`
	StepNum    *int    `json:"step_num,omitempty"`
	Direction  string  `json:"direction,omitempty"`
	Board      [][]int `json:"board,omitempty"`
	TotalSteps *int    `json:"total_steps,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Write frames and sends one message: 4-byte big-endian payload
// length, then the JSON payload, in a single write.
func Write(w io.Writer, m Message) error {
	payload, err := json.Marshal(toEnvelope(m))
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.Kind(), err)
	}
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("send %s: %w", m.Kind(), err)
	}
	return nil
}

// Read receives one framed message, looping on partial reads until the
// payload is complete. A connection that closes cleanly, including
// mid-frame, is reported as io.EOF.
func Read(r io.Reader) (Message, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, eofOrErr(err)
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > maxPayloadBytes {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, eofOrErr(err)
	}
	return fromPayload(payload)
}

func eofOrErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return io.EOF
	}
	return err
}

func toEnvelope(m Message) envelope {
	switch msg := m.(type) {
	case Connect:
		return envelope{Type: KindConnect, SolverID: &msg.SolverID}
	case Welcome:
		return envelope{Type: KindWelcome, SolverID: &msg.SolverID}
	case State:
		return envelope{Type: KindState, StepNum: &msg.StepNum, Board: msg.Board}
	case YourTurn:
		return envelope{Type: KindYourTurn, SolverID: &msg.SolverID}
	case Move:
		return envelope{Type: KindMove, SolverID: &msg.SolverID, Direction: msg.Direction.String()}
	case Solved:
		return envelope{Type: KindSolved, TotalSteps: &msg.TotalSteps}
	case NoSolution:
		return envelope{Type: KindNoSolution}
	case Error:
		return envelope{Type: KindError, Error: msg.Text}
	}
	panic(fmt.Sprintf("unknown message type %T", m))
}

func fromPayload(payload []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	switch env.Type {
	case KindConnect:
		return Connect{SolverID: intOrZero(env.SolverID)}, nil
	case KindWelcome:
		return Welcome{SolverID: intOrZero(env.SolverID)}, nil
	case KindState:
		return State{StepNum: intOrZero(env.StepNum), Board: env.Board}, nil
	case KindYourTurn:
		return YourTurn{SolverID: intOrZero(env.SolverID)}, nil
	case KindMove:
		direction, err := puzzle.ParseDirection(env.Direction)
		if err != nil {
			return nil, fmt.Errorf("decode MOVE: %w", err)
		}
		return Move{SolverID: intOrZero(env.SolverID), Direction: direction}, nil
	case KindSolved:
		return Solved{TotalSteps: intOrZero(env.TotalSteps)}, nil
	case KindNoSolution:
		return NoSolution{}, nil
	case KindError:
		return Error{Text: env.Error}, nil
	}
	return nil, fmt.Errorf("unknown message type %q", env.Type)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
