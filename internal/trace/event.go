package trace

import "fmt"

// Direction is the kind of block I/O operation.
type Direction uint8

const (
	Read Direction = iota
	Write
	Discard
)

// Directions lists every direction in display order.
var Directions = []Direction{Read, Write, Discard}

// String returns the long name of the direction.
func (d Direction) String() string {
	switch d {
	case Read:
		return "read"
	case Write:
		return "write"
	case Discard:
		return "discard"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Code returns the single-letter blkparse code (R, W or D).
func (d Direction) Code() string {
	switch d {
	case Read:
		return "R"
	case Write:
		return "W"
	case Discard:
		return "D"
	default:
		return "?"
	}
}

// ParseDirection accepts a blkparse code or a long name.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "R", "read", "Read":
		return Read, nil
	case "W", "write", "Write":
		return Write, nil
	case "D", "discard", "Discard":
		return Discard, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Event is one queued block I/O.
//
// Seq is the ingestion index and breaks ties between events with equal Time.
// Offset and Size are in bytes.
type Event struct {
	Seq       int
	Time      float64
	Offset    uint64
	Size      uint64
	Direction Direction
}

// End returns the first byte past the event.
func (e Event) End() uint64 {
	return e.Offset + e.Size
}

// Last returns the address of the event's last byte. Size must be positive.
func (e Event) Last() uint64 {
	return e.Offset + e.Size - 1
}
