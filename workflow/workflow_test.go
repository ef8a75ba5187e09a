/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionParameters(t *testing.T) {
	exec := NewExecution(map[string]any{"operation": "findOne", "filter": "{}"},
		Item{JSON: map[string]any{}}, Item{JSON: map[string]any{}})
	exec.WithItemParameter(1, "filter", `{"a":1}`)

	v, err := exec.GetNodeParameter("filter", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	v, err = exec.GetNodeParameter("filter", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, v)

	v, err = exec.GetNodeParameter("options", 1, "{}")
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	_, err = exec.GetNodeParameter("filter", 2, nil)
	assert.Error(t, err)
}

func TestExecutionCredentials(t *testing.T) {
	exec := NewExecution(nil).WithCredentials("astraDbApi", map[string]any{"token": "t"})

	creds, err := exec.GetCredentials(context.Background(), "astraDbApi")
	require.NoError(t, err)
	assert.Equal(t, "t", creds["token"])

	_, err = exec.GetCredentials(context.Background(), "other")
	assert.Error(t, err)
}

func TestNewItemPairs(t *testing.T) {
	item := NewItem(nil, 3)
	assert.Equal(t, map[string]any{}, item.JSON)
	assert.Equal(t, &PairedItem{Item: 3}, item.PairedItem)
}

func TestDisplayOptionsVisible(t *testing.T) {
	d := &DisplayOptions{Show: map[string][]any{"operation": {"findOne", "findMany"}}}
	assert.True(t, d.Visible(map[string]any{"operation": "findOne"}))
	assert.False(t, d.Visible(map[string]any{"operation": "insertOne"}))

	var none *DisplayOptions
	assert.True(t, none.Visible(nil))
}

func TestLoadRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
continueOnFail: true
parameters:
  operation: findMany
  collection: users
items:
  - json: {name: a}
  - parameters:
      filter: '{"age": 3}'
`), 0o600))

	exec, err := LoadRunFile(path)
	require.NoError(t, err)
	assert.True(t, exec.ContinueOnFail())
	require.Len(t, exec.GetInputData(), 2)
	assert.Equal(t, "a", exec.Items[0].JSON["name"])

	v, err := exec.GetNodeParameter("filter", 1, "{}")
	require.NoError(t, err)
	assert.Equal(t, `{"age": 3}`, v)

	v, err = exec.GetNodeParameter("filter", 0, "{}")
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	empty, err := ParseRunFile([]byte("parameters: {operation: estimatedDocumentCount}"))
	require.NoError(t, err)
	assert.Len(t, empty.Items, 1)
}
