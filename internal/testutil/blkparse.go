package testutil

import (
	"fmt"
	"strings"

	"github.com/roach88/blkbuster/internal/trace"
)

// BlkparseLine formats ev as a blkparse queue line. Offset and Size must be
// multiples of sectorSize.
func BlkparseLine(ev trace.Event, sectorSize uint64) string {
	return fmt.Sprintf("  8,0    1  %6d  %14.9f  4242  Q  %s %d + %d [fio]",
		ev.Seq+1, ev.Time, ev.Direction.Code(), ev.Offset/sectorSize, ev.Size/sectorSize)
}

// Blkparse renders events as blkparse text, one line each, interleaved with
// the kinds of lines a real trace carries that are not queue events.
func Blkparse(events []trace.Event, sectorSize uint64) string {
	var b strings.Builder
	for i, ev := range events {
		if i%2 == 1 {
			fmt.Fprintf(&b, "  8,0    1  %6d  %14.9f  4242  G  %s %d + %d [fio]\n",
				ev.Seq+1, ev.Time, ev.Direction.Code(), ev.Offset/sectorSize, ev.Size/sectorSize)
		}
		b.WriteString(BlkparseLine(ev, sectorSize))
		b.WriteByte('\n')
	}
	b.WriteString("CPU1 (8,0):\n Reads Queued:           1,        4KiB\n")
	return b.String()
}
