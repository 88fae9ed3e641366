// Package video drives frame rendering at a fixed frame rate and hands the
// frames, in order, to a sink.
//
// Frames are rendered on a bounded worker pool and written by a single
// consumer in frame-index order, so sinks see a strictly sequential stream no
// matter which worker finishes first. At most Workers+1 frames are held in
// memory at once. Cancelling the context stops dispatch of new frames; frames
// already rendering finish but are not written.
//
// Sinks:
//   - FFmpegSink pipes raw RGBA into an ffmpeg process that encodes H.264.
//   - PNGSink writes one numbered PNG per frame.
//   - DigestSink writes one SHA-256 digest line per frame.
package video
