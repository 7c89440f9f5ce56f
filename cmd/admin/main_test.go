package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"note-anywhere/internal/core/auth"
	"note-anywhere/internal/core/config"
)

func tokenConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.Issuer = "note-anywhere"
	cfg.JWT.AccessTokenTTLMin = 60
	return cfg
}

func TestIssueTokenRejectsEmptySecret(t *testing.T) {
	var out, errOut bytes.Buffer
	code := issueToken(tokenConfig(""), []string{"--sub", "ops"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "jwt.secret is empty")
}

func TestIssueTokenRequiresSubject(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, issueToken(tokenConfig("s3cret"), nil, &out, &errOut))
	assert.Contains(t, errOut.String(), "--sub is required")
}

func TestIssueTokenPrintsAdminToken(t *testing.T) {
	cfg := tokenConfig("s3cret")
	var out, errOut bytes.Buffer
	code := issueToken(cfg, []string{"--sub", "ops", "--ttl", "5m"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	claims, err := newJWTer(cfg).Parse(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
	assert.WithinDuration(t, claims.IssuedAt.Add(5*time.Minute), claims.ExpiresAt.Time, time.Second)
}
