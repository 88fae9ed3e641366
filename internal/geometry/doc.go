// Package geometry maps a one-dimensional byte address space onto screen
// pixels.
//
// The mapping has two stages. The address space is first folded row-major
// into a logical grid of Rows stripes by Cols columns, where Cols keeps the
// grid's aspect ratio equal to the canvas's. Logical coordinates are then
// scaled affinely into the inset rectangle, the centered region that leaves a
// 10% margin on every side of the canvas.
//
// A Mapper has no mutable state. Every method is a pure function of the
// address-space extent and canvas geometry fixed at construction.
package geometry
