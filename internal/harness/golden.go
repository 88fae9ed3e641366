package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Summary renders a result as stable text for golden comparison. Frame
// digests are left out so the summary can be reviewed by hand.
func Summary(name string, r *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	fmt.Fprintf(&b, "events: %d\n", r.Events)
	fmt.Fprintf(&b, "skipped: %d\n", r.Skipped)
	fmt.Fprintf(&b, "max_offset: %d\n", r.MaxOffset)
	fmt.Fprintf(&b, "duration: %.3f\n", r.Duration)
	fmt.Fprintf(&b, "frames: %d\n", r.FrameCount)
	for _, f := range r.Frames {
		fmt.Fprintf(&b, "t=%.3f visible=%v\n", f.At, f.Visible)
	}
	if r.Pass {
		b.WriteString("pass\n")
	} else {
		fmt.Fprintf(&b, "fail: %d assertion(s)\n", len(r.Errors))
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its Summary against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Summary(name, result))
}
