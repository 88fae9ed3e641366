// Package harness runs rendering scenarios as executable contract tests.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: three_events
//	description: "What this scenario validates"
//	config:
//	  width: 100
//	  height: 50
//	  stripes: 10
//	events:
//	  - {time: 0.0, dir: R, offset: 0, size: 100}
//	  - {time: 0.05, dir: W, offset: 500, size: 50}
//	assertions:
//	  - type: visible
//	    at: 0.1
//	    seqs: [0, 1]
//	  - type: pixel
//	    at: 0.0
//	    offset: 50
//	    color: "#008000"
//
// Instead of inline events a scenario may name a blkparse text file with
// trace:, resolved relative to the scenario file.
//
// # Assertion Types
//
//   - visible: the seqs drawn in the frame at a time, oldest first
//   - blank: the frame at a time is entirely background
//   - pixel: one pixel, addressed by byte offset or x/y, has a color
//     ("background" names the theme background)
//   - frame_count: the number of frames in the full render
//   - max_offset: the address-space extent
//
// # Deterministic Testing
//
// Rendering is a pure function of the events and configuration, so a
// scenario's Summary is stable across runs and suitable for golden file
// comparison.
package harness
