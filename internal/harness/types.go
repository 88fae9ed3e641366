package harness

// FrameSummary records what one asserted frame showed.
type FrameSummary struct {
	At      float64 `json:"at"`
	Visible []int   `json:"visible"`
	Digest  string  `json:"digest"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Errors contains one message per failed assertion.
	Errors []string `json:"errors,omitempty"`

	Events     int     `json:"events"`
	Skipped    int     `json:"skipped"`
	MaxOffset  uint64  `json:"max_offset"`
	Duration   float64 `json:"duration"`
	FrameCount int     `json:"frame_count"`

	// Frames lists each distinct asserted frame time, in first-use order.
	Frames []FrameSummary `json:"frames"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Frames: []FrameSummary{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
