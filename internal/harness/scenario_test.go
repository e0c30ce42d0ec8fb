package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	content := `
name: test_scenario
description: "Test scenario"
seed: 9
favorites: [cot]
steps:
  - event: open_technique
    arg: cot
  - event: answer_quiz
    arg: $correct
    expect_error: NO_QUIZ_SESSION
assertions:
  - type: detail
    value: cot
  - type: quiz
    open: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, uint64(9), scenario.Seed)
	assert.Equal(t, []string{"cot"}, scenario.Favorites)
	require.Len(t, scenario.Steps, 2)
	assert.Equal(t, "NO_QUIZ_SESSION", scenario.Steps[1].ExpectError)
	require.Len(t, scenario.Assertions, 2)
	require.NotNil(t, scenario.Assertions[1].Open)
	assert.False(t, *scenario.Assertions[1].Open)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: a\ndescription: b\nstep: []\n",
			wantErr: "field step not found",
		},
		{
			name:    "missing name",
			yaml:    "description: b\nsteps: [{event: open_quiz}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: a\nsteps: [{event: open_quiz}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: a\ndescription: b\n",
			wantErr: "steps list is required",
		},
		{
			name:    "unknown event",
			yaml:    "name: a\ndescription: b\nsteps: [{event: launch}]\n",
			wantErr: `steps[0]: unknown event "launch"`,
		},
		{
			name:    "bad theme",
			yaml:    "name: a\ndescription: b\ntheme: sepia\nsteps: [{event: open_quiz}]\n",
			wantErr: "theme:",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: a\ndescription: b\nsteps: [{event: open_quiz}]\nassertions: [{type: vibes}]\n",
			wantErr: `unknown assertion type "vibes"`,
		},
		{
			name:    "bad mode",
			yaml:    "name: a\ndescription: b\nsteps: [{event: open_quiz}]\nassertions: [{type: mode, value: grid}]\n",
			wantErr: "mode must be category or search",
		},
		{
			name:    "empty quiz assertion",
			yaml:    "name: a\ndescription: b\nsteps: [{event: open_quiz}]\nassertions: [{type: quiz}]\n",
			wantErr: "quiz needs at least one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindScenarios_Filter(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"quiz_a.yaml", "quiz_b.yml", "search.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	all, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	quiz, err := FindScenarios(dir, "quiz_*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "quiz_a.yaml"), filepath.Join(dir, "quiz_b.yml")}, quiz)

	_, err = FindScenarios(dir, "[")
	assert.Error(t, err)
}
