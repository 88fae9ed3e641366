package store

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/blkbuster/internal/trace"
)

// TraceInfo describes one ingested trace.
type TraceInfo struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	SectorSize int    `json:"sector_size"`
	Lines      int    `json:"lines"`
	Skipped    int    `json:"skipped"`
	Events     int    `json:"events"`
}

// WriteTrace stores a parsed trace in one transaction and returns its new ID.
// info.ID and info.Events are filled in by the store.
func (s *Store) WriteTrace(ctx context.Context, info TraceInfo, events []trace.Event) (string, error) {
	for _, ev := range events {
		if ev.Offset > math.MaxInt64 || ev.Size > math.MaxInt64 || ev.Offset+ev.Size > math.MaxInt64 {
			return "", fmt.Errorf("write trace: event seq=%d exceeds the 63-bit address range", ev.Seq)
		}
		if ev.Size == 0 {
			return "", fmt.Errorf("write trace: event seq=%d has zero size", ev.Seq)
		}
	}

	id := s.ids.Generate()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write trace: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO traces (id, source, sector_size, lines, skipped, event_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, info.Source, info.SectorSize, info.Lines, info.Skipped, len(events))
	if err != nil {
		return "", fmt.Errorf("write trace: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (trace_id, seq, time, byte_offset, byte_size, direction)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("write trace: prepare: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, id, ev.Seq, ev.Time, int64(ev.Offset), int64(ev.Size), ev.Direction.Code()); err != nil {
			return "", fmt.Errorf("write trace: event seq=%d: %w", ev.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write trace: commit: %w", err)
	}
	return id, nil
}

// DeleteTrace removes a trace and its events.
func (s *Store) DeleteTrace(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM traces WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trace: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trace: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete trace %s: %w", id, ErrTraceNotFound)
	}
	return nil
}
