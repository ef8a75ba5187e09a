/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package response

import (
	"github.com/goccy/go-json"

	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// Envelope is the normalized output of one operation call.
type Envelope struct {
	Operation string
	Success   bool
	// Data is set only for operations without a fixed field mapping.
	Data any
	// Fields are the operation-specific fields, flattened next to operation and success.
	Fields map[string]any
}

// Map flattens the envelope into a single JSON object.
func (e Envelope) Map() map[string]any {
	m := make(map[string]any, len(e.Fields)+3)
	for k, v := range e.Fields {
		m[k] = v
	}
	m["operation"] = e.Operation
	m["success"] = e.Success
	if e.Data != nil {
		m["data"] = e.Data
	}
	return m
}

// MarshalJSON encodes the flattened envelope.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Map())
}

// Format maps the raw result of operation into an envelope. result is either the
// typed value returned by a datastore.Collection or a plain map carrying the same
// field names.
func Format(operation string, result any) Envelope {
	e := Envelope{Operation: operation, Success: true}

	switch operation {
	case "insertOne":
		e.Fields = insertOneFields(result)
	case "insertMany":
		e.Fields = insertManyFields(result)
	case "findMany":
		docs := documents(result)
		e.Fields = map[string]any{"data": docs, "count": len(docs)}
	case "findOne", "findOneAndUpdate", "findOneAndReplace", "findOneAndDelete":
		doc := document(result)
		if doc == nil {
			e.Fields = map[string]any{"data": nil, "found": false}
		} else {
			e.Fields = map[string]any{"data": doc, "found": true}
		}
	case "updateMany":
		e.Fields = updateFields(result)
	case "deleteMany":
		e.Fields = deleteFields(result)
	case "estimatedDocumentCount":
		e.Fields = map[string]any{"count": count(result)}
	default:
		e.Data = result
	}
	return e
}

// FormatError builds the record emitted for a failed item under continue-on-fail.
func FormatError(operation string, err error) Envelope {
	return Envelope{
		Operation: operation,
		Success:   false,
		Fields: map[string]any{
			"error":     err.Error(),
			"errorType": apperrors.Kind(err),
		},
	}
}

func pick(m map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

func insertOneFields(result any) map[string]any {
	switch r := result.(type) {
	case *storagemodels.InsertOneResult:
		if r != nil {
			return map[string]any{"insertedId": r.InsertedID, "acknowledged": r.Acknowledged}
		}
	case map[string]any:
		return pick(r, "insertedId", "acknowledged")
	}
	return map[string]any{}
}

func insertManyFields(result any) map[string]any {
	switch r := result.(type) {
	case *storagemodels.InsertManyResult:
		if r != nil {
			return map[string]any{
				"insertedIds":   r.InsertedIDs,
				"insertedCount": len(r.InsertedIDs),
				"acknowledged":  r.Acknowledged,
			}
		}
	case map[string]any:
		out := pick(r, "insertedIds", "insertedCount", "acknowledged")
		if _, ok := out["insertedCount"]; !ok {
			if ids, ok := r["insertedIds"].([]any); ok {
				out["insertedCount"] = len(ids)
			}
		}
		return out
	}
	return map[string]any{}
}

func updateFields(result any) map[string]any {
	switch r := result.(type) {
	case *storagemodels.UpdateResult:
		if r == nil {
			break
		}
		out := map[string]any{
			"matchedCount":  r.MatchedCount,
			"modifiedCount": r.ModifiedCount,
			"upsertedCount": r.UpsertedCount,
			"acknowledged":  r.Acknowledged,
		}
		if r.UpsertedID != nil {
			out["upsertedId"] = r.UpsertedID
		}
		return out
	case map[string]any:
		out := pick(r, "matchedCount", "modifiedCount", "upsertedCount", "upsertedId", "acknowledged")
		if id, ok := out["upsertedId"]; ok && id == nil {
			delete(out, "upsertedId")
		}
		return out
	}
	return map[string]any{}
}

func deleteFields(result any) map[string]any {
	switch r := result.(type) {
	case *storagemodels.DeleteResult:
		if r != nil {
			return map[string]any{"deletedCount": r.DeletedCount, "acknowledged": r.Acknowledged}
		}
	case map[string]any:
		return pick(r, "deletedCount", "acknowledged")
	}
	return map[string]any{}
}

func documents(result any) []map[string]any {
	switch r := result.(type) {
	case []storagemodels.Document:
		out := make([]map[string]any, len(r))
		for i, d := range r {
			out[i] = map[string]any(d)
		}
		return out
	case []map[string]any:
		return r
	case []any:
		out := make([]map[string]any, 0, len(r))
		for _, v := range r {
			if m, ok := v.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return []map[string]any{}
}

func document(result any) map[string]any {
	switch r := result.(type) {
	case storagemodels.Document:
		if r != nil {
			return map[string]any(r)
		}
	case map[string]any:
		return r
	}
	return nil
}

func count(result any) any {
	switch r := result.(type) {
	case int64:
		return r
	case int:
		return int64(r)
	case map[string]any:
		return r["count"]
	}
	return result
}
