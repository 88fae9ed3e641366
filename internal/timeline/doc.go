// Package timeline holds the immutable, time-sorted event store that frame
// rendering queries.
//
// A Timeline is built once from a complete set of events. Build sorts by
// (Time, Seq), so events with equal timestamps keep ingestion order, and
// computes the address-space extent (MaxOffset) that coordinate mapping
// divides by. After Build returns, a Timeline is read-only and safe for
// concurrent use.
//
// Window queries are half-open on the left: Window(start, end) returns the
// events with start < Time <= end. Adjacent windows of equal width therefore
// never count a boundary event twice.
package timeline
