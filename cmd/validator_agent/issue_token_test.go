package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/experience-validator/internal/config"
	"github.com/jonathan/experience-validator/internal/server"
)

func TestRunIssueToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret-with-enough-length")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	tokenSubject, tokenScope = "secretaria", "write"

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runIssueToken(cmd, nil))

	cfg, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(cfg).ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "secretaria", claims.Subject)
	assert.Equal(t, "write", claims.Scope)
}

func TestRunIssueToken_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	tokenSubject = "secretaria"

	err := runIssueToken(&cobra.Command{}, nil)
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestJWTConfig_OptionalForServe(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg, err := jwtConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)

	t.Setenv("JWT_SECRET", "short")
	_, err = jwtConfig()
	assert.Error(t, err)
}
