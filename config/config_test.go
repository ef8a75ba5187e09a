/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendDataAPI, cfg.Backend)
	assert.Equal(t, DefaultAdminEndpoint, cfg.AdminEndpoint)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: dynamodb
httpTimeout: 5s
logEnv: development
dynamodb:
  table: docs
  pageSize: 25
`), 0o600))

	t.Setenv("ASTRADB_HTTP_TIMEOUT", "2m")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendDynamoDB, cfg.Backend)
	assert.Equal(t, 2*time.Minute, cfg.HTTPTimeout)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "docs", cfg.DynamoDB.Table)
	assert.Equal(t, int32(25), cfg.DynamoDB.PageSize)
	assert.Equal(t, "eu-west-1", cfg.DynamoDB.Region)
	assert.Equal(t, 3, cfg.DynamoDB.MaxRetries)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("Backend", func(t *testing.T) {
		t.Setenv("ASTRADB_BACKEND", "cassandra")
		_, err := Load("")
		assert.ErrorContains(t, err, "backend")
	})

	t.Run("Timeout", func(t *testing.T) {
		t.Setenv("ASTRADB_HTTP_TIMEOUT", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "ASTRADB_HTTP_TIMEOUT")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ASTRADB_LOG_ENV=development\n"), 0o600))
	t.Setenv("ASTRADB_LOG_ENV", "")
	os.Unsetenv("ASTRADB_LOG_ENV")

	require.NoError(t, LoadEnvFile(path))
	t.Cleanup(func() { os.Unsetenv("ASTRADB_LOG_ENV") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
}
