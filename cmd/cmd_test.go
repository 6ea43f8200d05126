package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BrewMyTech/grok-mcp/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv(auth.SecretEnv, "cli-secret")

	out, err := execute(t, "token", "--subject", "agent-1")
	require.NoError(t, err)

	subject, err := auth.NewTWithSecret([]byte("cli-secret")).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "agent-1", subject)
}

func TestTokenCommand_NoSecret(t *testing.T) {
	t.Setenv(auth.SecretEnv, "")

	_, err := execute(t, "token")
	assert.ErrorContains(t, err, auth.SecretEnv)
}

func TestServeCommand_UnknownTransport(t *testing.T) {
	_, err := execute(t, "serve", "--transport", "carrier-pigeon")
	assert.ErrorContains(t, err, "unknown transport")
}
