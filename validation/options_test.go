/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

func TestParseOptionsDefaults(t *testing.T) {
	for _, raw := range []any{nil, "", "  "} {
		opts, err := ParseOptions(raw)
		require.NoError(t, err)
		assert.Nil(t, opts.Limit)
		assert.Nil(t, opts.Skip)
		assert.False(t, opts.Upsert)
		assert.Equal(t, storagemodels.ReturnAfter, opts.ReturnDocument)
	}
}

func TestParseOptionsRoundTrip(t *testing.T) {
	opts, err := ParseOptions(`{"limit": 100, "skip": 10, "sort": {"name": 1, "age": -1}}`)
	require.NoError(t, err)

	require.NotNil(t, opts.Limit)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(100), *opts.Limit)
	assert.Equal(t, int64(10), *opts.Skip)
	assert.Equal(t, storagemodels.Sort{
		{Field: "name", Direction: 1},
		{Field: "age", Direction: -1},
	}, opts.Sort)
	assert.Equal(t, map[string]any{"name": 1, "age": -1}, opts.Sort.Map())
}

func TestParseOptionsSortOrderFromObject(t *testing.T) {
	opts, err := ParseOptions(map[string]any{"sort": `{"z": -1, "a": 1}`})
	require.NoError(t, err)
	assert.Equal(t, storagemodels.Sort{{Field: "z", Direction: -1}, {Field: "a", Direction: 1}}, opts.Sort)
}

func TestParseOptionsRejects(t *testing.T) {
	tests := []struct {
		name   string
		raw    any
		option string
	}{
		{"LimitTooLarge", map[string]any{"limit": 2000}, "limit"},
		{"LimitZero", `{"limit": 0}`, "limit"},
		{"LimitFraction", `{"limit": 1.5}`, "limit"},
		{"LimitNotNumber", `{"limit": "many"}`, "limit"},
		{"NegativeSkip", `{"skip": -1}`, "skip"},
		{"SkipOverflow", `{"skip": 1e19}`, "skip"},
		{"SkipStringOverflow", map[string]any{"skip": "99999999999999999999"}, "skip"},
		{"SortDirection", map[string]any{"sort": map[string]any{"name": 2}}, "sort"},
		{"SortString", `{"sort": {"name": "asc"}}`, "sort"},
		{"SortBadJSON", map[string]any{"sort": `{"name": `}, "sort"},
		{"Projection", `{"projection": {"name": "yes"}}`, "projection"},
		{"Upsert", `{"upsert": "maybe"}`, "upsert"},
		{"ReturnDocument", `{"returnDocument": "later"}`, "returnDocument"},
		{"TimeoutTooLong", `{"timeout": "1h"}`, "timeout"},
		{"TimeoutZero", `{"timeout": 0}`, "timeout"},
		{"Retries", `{"retries": 11}`, "retries"},
		{"Unknown", `{"batchSize": 5}`, "batchSize"},
		{"NotObject", `[1, 2]`, "options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseOptions(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidOption)
			assert.Equal(t, storagemodels.Options{}, opts)

			var optErr *apperrors.OptionError
			require.ErrorAs(t, err, &optErr)
			assert.Equal(t, tt.option, optErr.Option)
		})
	}
}

func TestParseOptionsOutOfRange(t *testing.T) {
	for _, raw := range []any{`{"skip": 1e19}`, `{"limit": -1e19}`, map[string]any{"skip": "99999999999999999999"}} {
		_, err := ParseOptions(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range", "%v", raw)
		assert.NotContains(t, err.Error(), "negative", "%v", raw)
	}
}

func TestParseOptionsNoPartialApplication(t *testing.T) {
	opts, err := ParseOptions(`{"limit": 5, "skip": -3}`)
	require.Error(t, err)
	assert.Nil(t, opts.Limit)
}

func TestParseOptionsCoercion(t *testing.T) {
	opts, err := ParseOptions(`{"upsert": "true", "returnDocument": "before", "limit": "25", "timeout": "30s", "retries": 2, "projection": "{\"name\": 1, \"_id\": false}"}`)
	require.NoError(t, err)
	assert.True(t, opts.Upsert)
	assert.Equal(t, storagemodels.ReturnBefore, opts.ReturnDocument)
	assert.Equal(t, int64(25), *opts.Limit)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 2, *opts.Retries)
	assert.Equal(t, map[string]any{"name": int64(1), "_id": false}, opts.Projection)

	opts, err = ParseOptions(map[string]any{"timeout": 1500, "upsert": 1})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, opts.Timeout)
	assert.True(t, opts.Upsert)
}
