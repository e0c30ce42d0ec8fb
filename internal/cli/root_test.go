package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "promptguide", cmd.Use)
	assert.Contains(t, cmd.Long, "prompt-engineering techniques")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"browse"}, {"categories"}, {"show"}, {"search"}, {"fav"},
		{"fav", "list"}, {"fav", "toggle"}, {"prefs", "list"}, {"prefs", "reset"},
		{"quiz"}, {"validate"}, {"export"}, {"test"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "db", "catalog"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		path      []string
		flag      string
		shorthand string
		def       string
	}{
		{[]string{"export"}, "output", "o", ""},
		{[]string{"quiz"}, "rounds", "n", "5"},
		{[]string{"quiz"}, "seed", "", "0"},
		{[]string{"show"}, "open", "", ""},
		{[]string{"test"}, "update", "", "false"},
		{[]string{"test"}, "filter", "", ""},
		{[]string{"test"}, "golden", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			sub, _, err := cmd.Find(tt.path)
			require.NoError(t, err)
			flag := sub.Flags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestExecute_InvalidFormat(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run("", "categories", "--format", "yaml")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, `invalid format "yaml"`)
}

func TestExecute_UnknownCommand(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run("", "frobnicate")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "unknown command")
}

func TestExecute_MissingExplicitConfig(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run("", "categories", "--config", env.dir+"/nope.yaml")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stdout, "Error [E002]")
	assert.Empty(t, res.stderr, "reported errors are not printed twice")
}

func TestExecute_InvalidConfig(t *testing.T) {
	env := newCLIEnv(t)
	path := env.writeFile("bad.yaml", "log_level: loud\n")
	res := env.run("", "categories", "--config", path)

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stdout, "Error [E002]")
	assert.Contains(t, res.stdout, `log_level must be one of [debug info warn error], got "loud"`)
}

func TestExecute_ConfigDefaultCategory(t *testing.T) {
	env := newCLIEnv(t)
	env.writeFile("promptguide/config.yaml", "default_category: quality\n")

	res := env.run("", "show")
	require.Equal(t, ExitSuccess, res.code, res.stdout)
	assert.Contains(t, res.stdout, "> 🛡️ Quality & Reliability (2)")
}

func TestExecute_UnknownDefaultCategory(t *testing.T) {
	env := newCLIEnv(t)
	env.writeFile("promptguide/config.yaml", "default_category: nowhere\n")

	res := env.run("", "show")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stdout, "Error [E004]")
	assert.Contains(t, res.stdout, `default category "nowhere" not found`)
}

func TestExecute_LogFile(t *testing.T) {
	env := newCLIEnv(t)
	logPath := env.dir + "/promptguide.log"
	env.writeFile("promptguide/config.yaml", "log_file: "+logPath+"\n")

	res := env.run("", "fav", "toggle", "cot")
	require.Equal(t, ExitSuccess, res.code, res.stdout)

	data, err := readFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, data, `"msg":"favorite toggled"`)
	assert.NotContains(t, res.stderr, "favorite toggled")
}
