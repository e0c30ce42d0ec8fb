package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// smallCatalogCUE holds two techniques, too few for the quiz.
const smallCatalogCUE = `
categories: [{
	id:          "reasoning"
	title:       "Reasoning"
	icon:        "🧠"
	description: "Techniques for multi-step problems."
	insight:     "Reasoning costs tokens."
	chartData:   [7, 9, 5, 4, 3]
	techniques: [{
		id:            "cot"
		title:         "Chain-of-Thought"
		definition:    "Asking the model to think step by step."
		bestUse:       "Math and logic."
		mechanism:     "Intermediate tokens act as scratch space."
		exampleInput:  "Solve 2+2. Think step by step."
		exampleOutput: "2 plus 2 is 4."
		complexity:    "Mid"
	}, {
		id:            "self-ask"
		title:         "Self-Ask"
		definition:    "The model asks itself follow-up questions."
		bestUse:       "Multi-hop questions."
		mechanism:     "Explicit sub-questions."
		exampleInput:  "Who was president when the Eiffel Tower opened?"
		exampleOutput: "Follow up: When did it open?"
		complexity:    "Mid"
	}]
}]
`

// cliEnv runs commands against a private config home, so the default
// database lives in a temp dir and persists across calls in one test.
type cliEnv struct {
	t   *testing.T
	dir string
}

type cliResult struct {
	stdout string
	stderr string
	code   int
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return &cliEnv{t: t, dir: dir}
}

func (e *cliEnv) run(stdin string, args ...string) cliResult {
	e.t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return cliResult{stdout: out.String(), stderr: errOut.String(), code: code}
}

// writeFile writes content under the env dir and returns its path.
func (e *cliEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// decodeData decodes a JSON CLIResponse whose data has type T.
func decodeData[T any](t *testing.T, out string) (string, T, *CLIError) {
	t.Helper()
	var resp struct {
		Status string    `json:"status"`
		Data   T         `json:"data"`
		Error  *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "stdout: %s", out)
	return resp.Status, resp.Data, resp.Error
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}
