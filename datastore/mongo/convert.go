/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// sortDoc keeps the sort key order, which a map would lose.
func sortDoc(s storagemodels.Sort) bson.D {
	if len(s) == 0 {
		return nil
	}
	d := make(bson.D, 0, len(s))
	for _, f := range s {
		d = append(d, bson.E{Key: f.Field, Value: f.Direction})
	}
	return d
}

// plain converts decoded BSON into JSON-friendly Go values. ObjectIDs become
// hex strings, dates time.Time and 32-bit integers int64.
func plain(v any) any {
	switch t := v.(type) {
	case bson.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(t)
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		return plainSlice(t)
	case []any:
		return plainSlice(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case primitive.Decimal128:
		return t.String()
	case primitive.Binary:
		return t.Data
	case primitive.Regex:
		return t.Pattern
	case primitive.Null, primitive.Undefined:
		return nil
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float32:
		return float64(t)
	}
	return v
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plain(v)
	}
	return out
}

func plainSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = plain(v)
	}
	return out
}

func toDocument(m bson.M) storagemodels.Document {
	if m == nil {
		return nil
	}
	return storagemodels.Document(plainMap(m))
}

// filterDoc returns a non-nil filter; the driver rejects nil.
func filterDoc(f storagemodels.Filter) any {
	if f == nil {
		return bson.M{}
	}
	return map[string]any(f)
}
