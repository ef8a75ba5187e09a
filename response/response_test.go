/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package response

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

func TestFormatInsertOneFromMap(t *testing.T) {
	got := Format("insertOne", map[string]any{"insertedId": "123", "acknowledged": true}).Map()
	assert.Equal(t, map[string]any{
		"operation":    "insertOne",
		"success":      true,
		"insertedId":   "123",
		"acknowledged": true,
	}, got)
}

func TestFormatTypedResults(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		result    any
		want      map[string]any
	}{
		{
			name:      "insertMany",
			operation: "insertMany",
			result:    &storagemodels.InsertManyResult{InsertedIDs: []any{"a", "b"}, Acknowledged: true},
			want:      map[string]any{"insertedIds": []any{"a", "b"}, "insertedCount": 2, "acknowledged": true},
		},
		{
			name:      "findMany",
			operation: "findMany",
			result:    []storagemodels.Document{{"_id": "a"}},
			want:      map[string]any{"data": []map[string]any{{"_id": "a"}}, "count": 1},
		},
		{
			name:      "findOne hit",
			operation: "findOne",
			result:    storagemodels.Document{"_id": "a"},
			want:      map[string]any{"data": map[string]any{"_id": "a"}, "found": true},
		},
		{
			name:      "findOneAndDelete miss",
			operation: "findOneAndDelete",
			result:    storagemodels.Document(nil),
			want:      map[string]any{"data": nil, "found": false},
		},
		{
			name:      "updateMany without upsert",
			operation: "updateMany",
			result:    &storagemodels.UpdateResult{MatchedCount: 2, ModifiedCount: 1, Acknowledged: true},
			want:      map[string]any{"matchedCount": int64(2), "modifiedCount": int64(1), "upsertedCount": int64(0), "acknowledged": true},
		},
		{
			name:      "updateMany with upsert",
			operation: "updateMany",
			result:    &storagemodels.UpdateResult{UpsertedCount: 1, UpsertedID: "n", Acknowledged: true},
			want:      map[string]any{"matchedCount": int64(0), "modifiedCount": int64(0), "upsertedCount": int64(1), "upsertedId": "n", "acknowledged": true},
		},
		{
			name:      "deleteMany",
			operation: "deleteMany",
			result:    &storagemodels.DeleteResult{DeletedCount: 4, Acknowledged: true},
			want:      map[string]any{"deletedCount": int64(4), "acknowledged": true},
		},
		{
			name:      "estimatedDocumentCount",
			operation: "estimatedDocumentCount",
			result:    int64(42),
			want:      map[string]any{"count": int64(42)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Format(tt.operation, tt.result)
			assert.Equal(t, tt.operation, e.Operation)
			assert.True(t, e.Success)
			assert.Equal(t, tt.want, e.Fields)
		})
	}
}

func TestFormatUnknownOperation(t *testing.T) {
	got := Format("aggregate", []int{1}).Map()
	assert.Equal(t, map[string]any{"operation": "aggregate", "success": true, "data": []int{1}}, got)
}

func TestFormatError(t *testing.T) {
	e := FormatError("findOne", apperrors.NewQueryError("filter", []string{"operator $where is not allowed in filter"}))
	assert.False(t, e.Success)
	assert.Equal(t, "QueryError", e.Fields["errorType"])
	assert.Contains(t, e.Fields["error"], "$where")

	plain := FormatError("findOne", errors.New("boom")).Map()
	assert.Equal(t, "Error", plain["errorType"])
	assert.Equal(t, false, plain["success"])
}

func TestEnvelopeMarshalJSON(t *testing.T) {
	b, err := Format("estimatedDocumentCount", int64(7)).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"operation":"estimatedDocumentCount","success":true,"count":7}`, string(b))
}
