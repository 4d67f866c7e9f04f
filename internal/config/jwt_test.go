package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-0123456789")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("JWT_ISSUER", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key-0123456789", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours)
	assert.Equal(t, DefaultJWTIssuer, cfg.Issuer)
}

func TestNewJWTConfig_CustomValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "another-secret-key-abcdef")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("JWT_ISSUER", "secretaria")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.ExpirationHours)
	assert.Equal(t, "secretaria", cfg.Issuer)
}

func TestNewJWTConfig_Errors(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		expiration string
		wantErr    string
	}{
		{name: "invalid expiration", secret: "test-secret-key-0123456789", expiration: "soon", wantErr: "invalid JWT_EXPIRATION_HOURS"},
		{name: "zero expiration", secret: "test-secret-key-0123456789", expiration: "0", wantErr: "at least 1 hour"},
		{name: "short secret", secret: "short", wantErr: "at least 16 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewJWTConfig_NotConfigured(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := NewJWTConfig()
	assert.True(t, errors.Is(err, ErrJWTNotConfigured))
}
