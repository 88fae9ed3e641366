// Package testutil provides deterministic fixtures for blkbuster tests:
// an event log builder that stamps ingestion order, and a formatter that
// turns events back into blkparse text.
package testutil
