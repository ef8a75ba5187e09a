/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package validation

import (
	"errors"
	"io"
	"strings"

	"github.com/goccy/go-json"

	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// DecodeJSON turns a raw parameter value into plain Go values. Strings are parsed as
// JSON; already-decoded values are copied. An empty string decodes to nil.
// Integral numbers become int64, all other numbers float64.
func DecodeJSON(raw any, parameter string) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return Normalize(raw), nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, apperrors.NewParseError(parameter, err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, apperrors.NewParseError(parameter, errors.New("unexpected data after top-level value"))
	}
	return Normalize(v), nil
}

// Normalize deep-copies v into map[string]any / []any form with numbers as int64 or float64.
// A nil object stays nil.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case storagemodels.Document:
		return Normalize(map[string]any(t))
	case storagemodels.Filter:
		return Normalize(map[string]any(t))
	case storagemodels.Update:
		return Normalize(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case storagemodels.Document:
		return t, true
	case storagemodels.Filter:
		return t, true
	case storagemodels.Update:
		return t, true
	}
	return nil, false
}

func isArray(v any) bool {
	switch v.(type) {
	case []any, []map[string]any, []storagemodels.Document:
		return true
	}
	return false
}
