// Package render composites frames from a timeline.
//
// RenderFrame(t) is a pure function of t and state fixed at construction: the
// timeline, the configuration and the theme. Each call starts from a canvas
// cleared to the theme background, selects the events in the trailing window
// (t - span, t], where span is the fade window plus one frame interval, and
// paints them oldest first so newer events land on top.
//
// An event's color is its direction color blended toward the background by
// an exponential fade, intensity = exp(-age/decay). Its byte range is split
// into one horizontal run per logical row it touches, and each run is drawn
// as a round-capped stroke clipped to the inset rectangle.
//
// A Renderer is safe for concurrent use; frames may be requested in any
// order.
package render
