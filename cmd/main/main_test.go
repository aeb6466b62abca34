package main

import (
	"io"
	"testing"

	"github.com/UnknownOlympus/staffbook/internal/config"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RejectsInvalidConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--port", "0"})

	err := cmd.Execute()

	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRootCommand_RegistersFlags(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{"config", "port", "monitoring-port", "data-file", "log-format"} {
		require.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
