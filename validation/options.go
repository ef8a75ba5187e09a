/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"gopkg.in/yaml.v3"

	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// Option bounds. Values outside these ranges are rejected, never clamped.
const (
	MinLimit   = 1
	MaxLimit   = 1000
	MaxRetries = 10
	MinTimeout = time.Millisecond
	MaxTimeout = 5 * time.Minute
)

var knownOptions = map[string]struct{}{
	"limit":          {},
	"skip":           {},
	"sort":           {},
	"projection":     {},
	"upsert":         {},
	"returnDocument": {},
	"timeout":        {},
	"retries":        {},
}

// ParseOptions converts the raw options parameter (nil, JSON string or decoded object)
// into typed options. The first violation aborts parsing; nothing is partially applied.
func ParseOptions(raw any) (storagemodels.Options, error) {
	opts := storagemodels.Options{ReturnDocument: storagemodels.ReturnAfter}

	v, err := DecodeJSON(raw, "options")
	if err != nil {
		return storagemodels.Options{}, err
	}
	if v == nil {
		return opts, nil
	}
	fields, ok := asObject(v)
	if !ok {
		return storagemodels.Options{}, apperrors.NewOptionError("options", "must be an object")
	}

	for _, k := range sortedKeys(fields) {
		if _, known := knownOptions[k]; !known {
			return storagemodels.Options{}, apperrors.NewOptionError(k, "is not a supported option")
		}
	}

	var sortOrder []string
	if s, isString := raw.(string); isString {
		sortOrder = nestedKeyOrder(s, "sort")
	}

	if val, ok := fields["limit"]; ok && val != nil {
		n, err := integerOption("limit", val)
		if err != nil {
			return storagemodels.Options{}, err
		}
		if n < MinLimit || n > MaxLimit {
			return storagemodels.Options{}, apperrors.NewOptionError("limit",
				fmt.Sprintf("must be between %d and %d, got %d", MinLimit, MaxLimit, n))
		}
		opts.Limit = &n
	}

	if val, ok := fields["skip"]; ok && val != nil {
		n, err := integerOption("skip", val)
		if err != nil {
			return storagemodels.Options{}, err
		}
		if n < 0 {
			return storagemodels.Options{}, apperrors.NewOptionError("skip", fmt.Sprintf("must not be negative, got %d", n))
		}
		opts.Skip = &n
	}

	if val, ok := fields["sort"]; ok && val != nil {
		s, err := parseSort(val, sortOrder)
		if err != nil {
			return storagemodels.Options{}, err
		}
		opts.Sort = s
	}

	if val, ok := fields["projection"]; ok && val != nil {
		p, err := parseProjection(val)
		if err != nil {
			return storagemodels.Options{}, err
		}
		opts.Projection = p
	}

	if val, ok := fields["upsert"]; ok && val != nil {
		b, err := coerceBool("upsert", val)
		if err != nil {
			return storagemodels.Options{}, err
		}
		opts.Upsert = b
	}

	if val, ok := fields["returnDocument"]; ok && val != nil {
		s, isString := val.(string)
		switch storagemodels.ReturnDocument(s) {
		case storagemodels.ReturnBefore, storagemodels.ReturnAfter:
			opts.ReturnDocument = storagemodels.ReturnDocument(s)
		default:
			if !isString {
				return storagemodels.Options{}, apperrors.NewOptionError("returnDocument", "must be a string")
			}
			return storagemodels.Options{}, apperrors.NewOptionError("returnDocument",
				fmt.Sprintf("must be %q or %q, got %q", storagemodels.ReturnBefore, storagemodels.ReturnAfter, s))
		}
	}

	if val, ok := fields["timeout"]; ok && val != nil {
		d, err := parseTimeout(val)
		if err != nil {
			return storagemodels.Options{}, err
		}
		opts.Timeout = d
	}

	if val, ok := fields["retries"]; ok && val != nil {
		n, err := integerOption("retries", val)
		if err != nil {
			return storagemodels.Options{}, err
		}
		if n < 0 || n > MaxRetries {
			return storagemodels.Options{}, apperrors.NewOptionError("retries",
				fmt.Sprintf("must be between 0 and %d, got %d", MaxRetries, n))
		}
		r := int(n)
		opts.Retries = &r
	}

	return opts, nil
}

// integerOption accepts integral numbers and numeric strings.
func integerOption(name string, v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return 0, apperrors.NewOptionError(name, fmt.Sprintf("must be an integer, got %v", t))
		}
		if t >= math.MaxInt64 || t < math.MinInt64 {
			return 0, apperrors.NewOptionError(name, fmt.Sprintf("is out of range, got %v", t))
		}
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, apperrors.NewOptionError(name, fmt.Sprintf("is out of range, got %q", t))
		}
		if err != nil {
			return 0, apperrors.NewOptionError(name, fmt.Sprintf("must be a number, got %q", t))
		}
		return n, nil
	default:
		return 0, apperrors.NewOptionError(name, fmt.Sprintf("must be a number, got %T", v))
	}
}

func parseSort(v any, order []string) (storagemodels.Sort, error) {
	if s, ok := v.(string); ok {
		decoded, err := DecodeJSON(s, "sort")
		if err != nil {
			return nil, apperrors.NewOptionError("sort", "must be valid JSON")
		}
		if decoded == nil {
			return nil, nil
		}
		return parseSort(decoded, topLevelKeyOrder(s))
	}

	obj, ok := asObject(v)
	if !ok {
		return nil, apperrors.NewOptionError("sort", "must be an object of field directions")
	}

	keys := orderedKeys(obj, order)
	out := make(storagemodels.Sort, 0, len(keys))
	for _, field := range keys {
		dir, ok := sortDirection(obj[field])
		if !ok {
			return nil, apperrors.NewOptionError("sort",
				fmt.Sprintf("direction for %q must be 1 or -1, got %v", field, obj[field]))
		}
		out = append(out, storagemodels.SortField{Field: field, Direction: dir})
	}
	return out, nil
}

func sortDirection(v any) (int, bool) {
	switch t := v.(type) {
	case int64:
		if t == 1 || t == -1 {
			return int(t), true
		}
	case int:
		if t == 1 || t == -1 {
			return t, true
		}
	case float64:
		if t == 1 || t == -1 {
			return int(t), true
		}
	}
	return 0, false
}

func parseProjection(v any) (map[string]any, error) {
	if s, ok := v.(string); ok {
		decoded, err := DecodeJSON(s, "projection")
		if err != nil {
			return nil, apperrors.NewOptionError("projection", "must be valid JSON")
		}
		if decoded == nil {
			return nil, nil
		}
		v = decoded
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, apperrors.NewOptionError("projection", "must be an object")
	}
	for _, field := range sortedKeys(obj) {
		switch t := obj[field].(type) {
		case bool:
		case int64:
			if t != 0 && t != 1 {
				return nil, apperrors.NewOptionError("projection", fmt.Sprintf("value for %q must be 0 or 1", field))
			}
		case float64:
			if t != 0 && t != 1 {
				return nil, apperrors.NewOptionError("projection", fmt.Sprintf("value for %q must be 0 or 1", field))
			}
		case map[string]any:
		default:
			return nil, apperrors.NewOptionError("projection", fmt.Sprintf("value for %q must be 0, 1, a boolean or an object", field))
		}
	}
	return obj, nil
}

func coerceBool(name string, v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case int64:
		return t != 0, nil
	case float64:
		return t != 0, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, apperrors.NewOptionError(name, fmt.Sprintf("must be a boolean, got %q", t))
		}
		return b, nil
	default:
		return false, apperrors.NewOptionError(name, fmt.Sprintf("must be a boolean, got %T", v))
	}
}

// parseTimeout accepts milliseconds or a duration string such as "30s" or "2 minutes".
func parseTimeout(v any) (time.Duration, error) {
	var d time.Duration
	switch t := v.(type) {
	case string:
		parsed, err := strfmt.ParseDuration(strings.TrimSpace(t))
		if err != nil {
			return 0, apperrors.NewOptionError("timeout", fmt.Sprintf("must be milliseconds or a duration, got %q", t))
		}
		d = parsed
	default:
		ms, err := integerOption("timeout", v)
		if err != nil {
			return 0, err
		}
		d = time.Duration(ms) * time.Millisecond
	}
	if d < MinTimeout || d > MaxTimeout {
		return 0, apperrors.NewOptionError("timeout", fmt.Sprintf("must be between %s and %s, got %s", MinTimeout, MaxTimeout, d))
	}
	return d, nil
}

// orderedKeys returns the keys of obj in the given order, followed by any
// remaining keys sorted alphabetically.
func orderedKeys(obj map[string]any, order []string) []string {
	keys := make([]string, 0, len(obj))
	seen := make(map[string]struct{}, len(obj))
	for _, k := range order {
		if _, ok := obj[k]; ok {
			if _, dup := seen[k]; !dup {
				keys = append(keys, k)
				seen[k] = struct{}{}
			}
		}
	}
	var rest []string
	for k := range obj {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// topLevelKeyOrder returns the keys of a JSON object in source order. JSON is
// valid YAML, and yaml.Node keeps mapping order where map decoding does not.
func topLevelKeyOrder(src string) []string {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}
	return mappingKeys(doc.Content[0])
}

// nestedKeyOrder returns the source-order keys of the object stored under field
// in the JSON object src.
func nestedKeyOrder(src, field string) []string {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == field {
			return mappingKeys(root.Content[i+1])
		}
	}
	return nil
}

func mappingKeys(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}
