package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden_Scenarios(t *testing.T) {
	for _, name := range []string{"three_events", "blkparse_trace"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSummary_Failing(t *testing.T) {
	r := NewResult()
	r.Events = 1
	r.MaxOffset = 10
	r.Duration = 1.5
	r.FrameCount = 91
	r.Frames = append(r.Frames, FrameSummary{At: 0.25, Visible: []int{0}})
	r.AddError("boom")

	want := "scenario: x\n" +
		"events: 1\n" +
		"skipped: 0\n" +
		"max_offset: 10\n" +
		"duration: 1.500\n" +
		"frames: 91\n" +
		"t=0.250 visible=[0]\n" +
		"fail: 1 assertion(s)\n"
	assert.Equal(t, want, string(Summary("x", r)))
}
