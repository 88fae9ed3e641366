package trace

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
)

// DefaultSectorSize is the unit blkparse reports sectors in.
const DefaultSectorSize = 512

// queueLine matches a blkparse line carrying a Q (queued) action with a
// read, write or discard RWBS field:
//
//	8,0    3        1     0.000000000  1234  Q  WS 1052672 + 8 [kworker/3:1]
var queueLine = regexp.MustCompile(`^\s*[\d,]+\s+\d+\s+\d+\s+([\d.]+)\s+\d+\s+Q\s+([RWD])S?M?\s+(\d+) \+ (\d+)`)

// Parser decodes blkparse text into events.
type Parser struct {
	// SectorSize converts sector numbers and counts into bytes.
	SectorSize uint64
}

// NewParser returns a parser using the given sector size. A zero size selects
// DefaultSectorSize.
func NewParser(sectorSize uint64) *Parser {
	if sectorSize == 0 {
		sectorSize = DefaultSectorSize
	}
	return &Parser{SectorSize: sectorSize}
}

// ParseResult holds the events of one parse pass in ingestion order.
type ParseResult struct {
	Events  []Event
	Lines   int // lines read
	Skipped int // lines that did not decode into an event
}

// Parse reads r to EOF. Seq is assigned in ingestion order starting at 0.
func (p *Parser) Parse(r io.Reader) (*ParseResult, error) {
	res := &ParseResult{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		res.Lines++
		ev, ok := p.ParseLine(sc.Text())
		if !ok {
			res.Skipped++
			continue
		}
		ev.Seq = len(res.Events)
		res.Events = append(res.Events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return res, nil
}

// ParseLine decodes a single line. It reports false for lines outside the
// grammar, zero-length requests and values that overflow a byte address.
func (p *Parser) ParseLine(line string) (Event, bool) {
	m := queueLine.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false
	}
	t, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		return Event{}, false
	}
	dir, err := ParseDirection(m[2])
	if err != nil {
		return Event{}, false
	}
	sector, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return Event{}, false
	}
	count, err := strconv.ParseUint(m[4], 10, 64)
	if err != nil || count == 0 {
		return Event{}, false
	}
	unit := p.SectorSize
	if unit == 0 {
		unit = DefaultSectorSize
	}
	if sector > math.MaxUint64/unit || count > math.MaxUint64/unit {
		return Event{}, false
	}
	offset, size := sector*unit, count*unit
	if offset > math.MaxUint64-size {
		return Event{}, false
	}
	return Event{Time: t, Offset: offset, Size: size, Direction: dir}, true
}
