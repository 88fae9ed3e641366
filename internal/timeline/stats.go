package timeline

import "github.com/roach88/blkbuster/internal/trace"

// DirectionStats counts events and bytes for one direction.
type DirectionStats struct {
	Events int    `json:"events"`
	Bytes  uint64 `json:"bytes"`
}

// Stats summarizes a timeline.
type Stats struct {
	Events    int                       `json:"events"`
	Start     float64                   `json:"start"`
	Duration  float64                   `json:"duration"`
	MaxOffset uint64                    `json:"max_offset"`
	ByDir     map[string]DirectionStats `json:"by_direction"`
}

// Stats computes per-direction counts over the whole timeline.
func (tl *Timeline) Stats() Stats {
	s := Stats{
		Events:    len(tl.events),
		Start:     tl.Start(),
		Duration:  tl.Duration(),
		MaxOffset: tl.maxOffset,
		ByDir:     make(map[string]DirectionStats, len(trace.Directions)),
	}
	for _, d := range trace.Directions {
		s.ByDir[d.String()] = DirectionStats{}
	}
	for _, ev := range tl.events {
		ds := s.ByDir[ev.Direction.String()]
		ds.Events++
		ds.Bytes += ev.Size
		s.ByDir[ev.Direction.String()] = ds
	}
	return s
}
