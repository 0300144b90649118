package phys

// Color is an RGB triple in [0,1], matching what the line renderer expects.
type Color [3]float64

// DebugVertex is one colored endpoint of a debug segment.
type DebugVertex struct {
	Position Vec3
	Color    Color
}

// DebugLine is a single renderable segment.
type DebugLine [2]DebugVertex

// DebugLines collects the segments produced by force generators during one
// frame. The buffer is owned by the physics goroutine; snapshots of it cross
// to the render side by value.
type DebugLines struct {
	lines []DebugLine
}

// Push appends one segment with a uniform color.
func (d *DebugLines) Push(from, to Vec3, color Color) {
	d.lines = append(d.lines, DebugLine{
		{Position: from, Color: color},
		{Position: to, Color: color},
	})
}

// Len returns the number of buffered segments.
func (d *DebugLines) Len() int {
	return len(d.lines)
}

// Lines returns a copy of the buffered segments.
func (d *DebugLines) Lines() []DebugLine {
	out := make([]DebugLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// Reset clears the buffer, keeping its capacity for the next frame.
func (d *DebugLines) Reset() {
	d.lines = d.lines[:0]
}
