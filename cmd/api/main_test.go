package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suar-net/starter-be/internal/config"
	"github.com/suar-net/starter-be/internal/service"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", ""))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoutesCommand(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	out, err := runCommand(t, "routes")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "METHOD"))
	for _, line := range []string{"GET     /v1/items/{key}", "DELETE  /v1/items/{key}", "GET     /v1/items/search", "GET     /healthz"} {
		assert.Contains(t, out, line)
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := runCommand(t, "token", "--subject", "alice")
	require.NoError(t, err)

	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	assert.Equal(t, "Bearer", fields[0])

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	claims, err := service.NewAuthService(cfg.JWT).ValidateToken(context.Background(), fields[1])
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestTokenCommandRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := runCommand(t, "token")
	assert.EqualError(t, err, "JWT_SECRET is not set")
}
