package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/blkbuster/internal/trace"
)

// ErrTraceNotFound is returned when a trace ID is not in the store.
var ErrTraceNotFound = errors.New("trace not found")

// GetTrace returns the metadata of one trace.
func (s *Store) GetTrace(ctx context.Context, id string) (TraceInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, sector_size, lines, skipped, event_count
		FROM traces
		WHERE id = ?
	`, id)
	info, err := scanTrace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TraceInfo{}, fmt.Errorf("get trace %s: %w", id, ErrTraceNotFound)
	}
	if err != nil {
		return TraceInfo{}, fmt.Errorf("get trace %s: %w", id, err)
	}
	return info, nil
}

// LatestTrace returns the most recently ingested trace.
func (s *Store) LatestTrace(ctx context.Context) (TraceInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, sector_size, lines, skipped, event_count
		FROM traces
		ORDER BY ord DESC
		LIMIT 1
	`)
	info, err := scanTrace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TraceInfo{}, fmt.Errorf("latest trace: %w", ErrTraceNotFound)
	}
	if err != nil {
		return TraceInfo{}, fmt.Errorf("latest trace: %w", err)
	}
	return info, nil
}

// ListTraces returns every trace in ingestion order.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListTraces(ctx context.Context) ([]TraceInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, sector_size, lines, skipped, event_count
		FROM traces
		ORDER BY ord ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query traces: %w", err)
	}
	defer rows.Close()

	traces := []TraceInfo{}
	for rows.Next() {
		info, err := scanTrace(rows)
		if err != nil {
			return nil, err
		}
		traces = append(traces, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traces: %w", err)
	}
	return traces, nil
}

// ReadEvents returns the events of a trace in ingestion order (seq ASC).
func (s *Store) ReadEvents(ctx context.Context, id string) ([]trace.Event, error) {
	if _, err := s.GetTrace(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, time, byte_offset, byte_size, direction
		FROM events
		WHERE trace_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []trace.Event{}
	for rows.Next() {
		var (
			ev           trace.Event
			offset, size int64
			dir          string
		)
		if err := rows.Scan(&ev.Seq, &ev.Time, &offset, &size, &dir); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Offset, ev.Size = uint64(offset), uint64(size)
		if ev.Direction, err = trace.ParseDirection(dir); err != nil {
			return nil, fmt.Errorf("scan event seq=%d: %w", ev.Seq, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrace(row rowScanner) (TraceInfo, error) {
	var info TraceInfo
	err := row.Scan(&info.ID, &info.Source, &info.SectorSize, &info.Lines, &info.Skipped, &info.Events)
	return info, err
}
