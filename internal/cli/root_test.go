package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "draftctl", cmd.Use)
	assert.Contains(t, cmd.Long, "assessment draft store")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"list", "show", "delete", "cleanup", "clear", "history", "diff", "rate"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
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

	for _, name := range []string{"config", "db", "backend"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	_, err := execute(cmd, "--format", "xml", "--backend", "memory", "list")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootCommand_DispatchesWithOverrides(t *testing.T) {
	opts := testRootOptions(t, "text")
	seedDrafts(t, opts, agedRecord("r1", "sess_a", 0, true))

	cmd := NewRootCommand()
	out, err := execute(cmd, "--config", "", "--db", opts.Database, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "sess_a")
}

func TestLoadConfig_UnknownBackend(t *testing.T) {
	_, err := loadConfig(&RootOptions{Backend: "etcd"})

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
