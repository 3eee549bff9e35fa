package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, isTerminal bool) {
	t.Helper()
	original := termIsTerminal
	termIsTerminal = func(int) bool { return isTerminal }
	t.Cleanup(func() { termIsTerminal = original })
}

func TestResolveEnvironmentExplicitModes(t *testing.T) {
	env, err := resolveEnvironment("desktop")
	require.NoError(t, err)
	require.True(t, env.IsDesktop())

	env, err = resolveEnvironment("web")
	require.NoError(t, err)
	require.False(t, env.IsDesktop())
}

func TestResolveEnvironmentAutoUsesLocalTerminal(t *testing.T) {
	t.Setenv("SSH_CONNECTION", "")
	t.Setenv("SSH_TTY", "")

	stubTerminal(t, true)
	env, err := resolveEnvironment("auto")
	require.NoError(t, err)
	require.True(t, env.IsDesktop())

	stubTerminal(t, false)
	env, err = resolveEnvironment("")
	require.NoError(t, err)
	require.False(t, env.IsDesktop())
}

func TestResolveEnvironmentAutoOverSSHIsWeb(t *testing.T) {
	t.Setenv("SSH_CONNECTION", "10.0.0.1 5555 10.0.0.2 22")
	stubTerminal(t, true)

	env, err := resolveEnvironment("auto")
	require.NoError(t, err)
	require.False(t, env.IsDesktop())
}

func TestResolveEnvironmentRejectsUnknownMode(t *testing.T) {
	_, err := resolveEnvironment("mainframe")
	require.Error(t, err)
	require.Contains(t, err.Error(), "mainframe")
}
