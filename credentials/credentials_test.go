/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package credentials

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msmygit/n8n-nodes-astradb/config"
	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
)

const adminURL = "https://api.astra.datastax.com"

func newTester() *Tester {
	cfg := config.Default()
	tester := NewTester(&http.Client{}, cfg)
	tester.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return tester
}

func validCreds() map[string]any {
	return map[string]any{"endpoint": "https://db-id-us-east1.apps.astra.datastax.com", "token": "AstraCS:abc"}
}

func TestCredentialTestOK(t *testing.T) {
	defer gock.Off()
	gock.New(adminURL).
		Get("/v2/databases").
		MatchHeader("Authorization", "^Bearer AstraCS:abc$").
		Reply(http.StatusOK).
		JSON([]any{})

	res, err := newTester().Test(context.Background(), validCreds())
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "2026-01-02T03:04:05.000Z", res.CheckedAt.String())
	assert.True(t, gock.IsDone())
}

func TestCredentialTestRejected(t *testing.T) {
	defer gock.Off()
	gock.New(adminURL).
		Get("/v2/databases").
		Reply(http.StatusUnauthorized).
		BodyString("invalid token")

	res, err := newTester().Test(context.Background(), validCreds())
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Contains(t, res.Message, "401")
	assert.Contains(t, res.Message, "invalid token")
}

func TestCredentialTestMalformed(t *testing.T) {
	_, err := newTester().Test(context.Background(), map[string]any{"endpoint": "https://x.example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestDescription(t *testing.T) {
	d := Description("")
	assert.Equal(t, Name, d.Name)
	require.Len(t, d.Properties, 2)
	assert.Equal(t, "endpoint", d.Properties[0].Name)
	assert.Equal(t, true, d.Properties[1].TypeOptions["password"])
	assert.Equal(t, config.DefaultAdminEndpoint, d.Test.URL)
}
