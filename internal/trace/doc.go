// Package trace defines the block I/O event record and the blkparse text parser
// that produces it.
//
// Parsing is tolerant: lines that do not match the queue-event grammar are
// skipped and counted, never reported as errors. Only the reader's own I/O
// failure aborts a parse.
package trace
