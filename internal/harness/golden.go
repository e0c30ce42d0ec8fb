package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Golden file location, relative to the test's package directory.
const (
	GoldenDir    = "testdata/golden"
	GoldenSuffix = ".golden"
)

// Snapshot renders a result as the golden file body: the trace, one event
// per line, followed by the final plain page.
func Snapshot(scenarioName string, result *Result) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", scenarioName)
	b.WriteString("## trace\n")
	for _, ev := range result.Trace {
		status := "ok"
		if !ev.Accepted {
			status = "rejected " + ev.Code
		}
		fmt.Fprintf(&b, "%d %s %s\n", ev.Seq, ev.Event, status)
	}
	b.WriteString("## page\n")
	b.WriteString(result.Page)

	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. A snapshot mismatch fails t
// through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(GoldenSuffix),
	)
	g.Assert(t, scenarioName, Snapshot(scenarioName, result))
}
