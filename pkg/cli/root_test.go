package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "graphql-inspector", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	for _, flag := range []string{"config", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing --%s", flag)
	}

	for _, name := range []string{"diff", "serve", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestDiffCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	sub, _, err := cmd.Find([]string{"diff"})
	require.NoError(t, err)

	for _, flag := range []string{"path", "interceptor", "interceptor-timeout", "fail-on-dangerous", "rule", "format"} {
		assert.NotNil(t, sub.Flags().Lookup(flag), "missing --%s", flag)
	}
	assert.Equal(t, FormatText, sub.Flags().Lookup("format").DefValue)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "check failed", err: ErrCheckFailed, want: ExitFailure},
		{name: "wrapped check failed", err: fmt.Errorf("outer: %w", ErrCheckFailed), want: ExitFailure},
		{name: "command error", err: commandError("bad %s", "input"), want: ExitCommandError},
		{name: "plain error", err: errors.New("boom"), want: ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "graphql-inspector "+Version)
	assert.Contains(t, out.String(), "commit:")
}

func TestUnknownCommand(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"nope"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
