package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/promptguide/internal/engine"
)

func TestQuiz_Rounds(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run("1\n2\n", "quiz", "--rounds", "2", "--seed", "7")

	require.Equal(t, ExitSuccess, res.code, res.stdout)
	assert.Contains(t, res.stdout, "Question 1 of 2 · Score: 0")
	assert.Contains(t, res.stdout, "Question 2 of 2 · Score: ")
	assert.Contains(t, res.stdout, "  4. ")
	assert.Regexp(t, `Final score: [0-2] / 2\n$`, res.stdout)
	assert.Equal(t, 2, strings.Count(res.stdout, "Correct!")+strings.Count(res.stdout, "Not quite. The answer is "))
}

func TestQuiz_SeedIsDeterministic(t *testing.T) {
	env := newCLIEnv(t)
	first := env.run("1\n3\n2\n", "quiz", "-n", "3", "--seed", "42")
	second := env.run("1\n3\n2\n", "quiz", "-n", "3", "--seed", "42")

	require.Equal(t, ExitSuccess, first.code)
	assert.Equal(t, first.stdout, second.stdout)
}

func TestQuiz_RejectsBadInput(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run("9\n\nxyz\n1\n", "quiz", "--rounds", "1", "--seed", "3")

	require.Equal(t, ExitSuccess, res.code, res.stdout)
	assert.Equal(t, 2, strings.Count(res.stdout, "Enter 1-4 or a technique id.\n"))
	assert.Contains(t, res.stdout, `"xyz" is not one of the options.`)
	assert.Contains(t, res.stdout, "Final score: ")
	assert.Contains(t, res.stdout, " / 1\n")
}

func TestQuiz_EndOfInputStopsEarly(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run("", "quiz", "--rounds", "3", "--seed", "5")

	require.Equal(t, ExitSuccess, res.code, res.stdout)
	assert.Contains(t, res.stdout, "Question 1 of 3")
	assert.NotContains(t, res.stdout, "Question 2 of 3")
	assert.Contains(t, res.stdout, "Final score: 0 / 0\n")
}

func TestQuiz_JSON(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run("1\n", "quiz", "--rounds", "1", "--seed", "9", "--format", "json")
	require.Equal(t, ExitSuccess, res.code, res.stdout)

	assert.Contains(t, res.stderr, "Question 1 of 1")
	status, summary, _ := decodeData[QuizSummary](t, res.stdout)
	assert.Equal(t, "ok", status)
	assert.Equal(t, 1, summary.Answered)
	assert.Equal(t, 1, summary.Rounds)
	assert.LessOrEqual(t, summary.Score, 1)
	assert.NotEmpty(t, summary.SessionID)
}

func TestQuiz_InvalidRounds(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run("", "quiz", "--rounds", "0")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stdout, "rounds must be at least 1")
}

func TestQuiz_CatalogTooSmall(t *testing.T) {
	env := newCLIEnv(t)
	path := env.writeFile("small.cue", smallCatalogCUE)

	res := env.run("", "quiz", "--catalog", path)
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stdout, "Error [E304]")
}

func TestParseAnswer(t *testing.T) {
	q := &engine.QuizView{Options: []engine.QuizOption{
		{Number: 1, ID: "cot"}, {Number: 2, ID: "rag"}, {Number: 3, ID: "few-shot"}, {Number: 4, ID: "zero-shot"},
	}}

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1", "cot", true},
		{" 4 ", "zero-shot", true},
		{"rag", "rag", true},
		{"0", "", false},
		{"5", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, ok := parseAnswer(q, tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, string(id))
		})
	}
}
