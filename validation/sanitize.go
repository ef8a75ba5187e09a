/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package validation

import (
	"regexp"

	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	markupTagPattern   = regexp.MustCompile(`</?[A-Za-z!][^<>]*>`)
)

// SanitizeString removes script blocks and markup tags from s. Removal repeats
// until nothing changes, so a tag split by an inner tag does not survive.
func SanitizeString(s string) string {
	for {
		out := scriptBlockPattern.ReplaceAllString(s, "")
		out = markupTagPattern.ReplaceAllString(out, "")
		if out == s {
			return out
		}
		s = out
	}
}

// Sanitize returns a copy of v with every string value and object key passed
// through SanitizeString, descending into objects and arrays. When two keys
// sanitize to the same name the result keeps one of them. v is not modified.
func Sanitize(v any) any {
	switch t := v.(type) {
	case string:
		return SanitizeString(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[SanitizeString(k)] = Sanitize(val)
		}
		return out
	case storagemodels.Document:
		return SanitizeDocument(t)
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Sanitize(val)
		}
		return out
	case []storagemodels.Document:
		out := make([]any, len(t))
		for i, doc := range t {
			out[i] = SanitizeDocument(doc)
		}
		return out
	case []string:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = SanitizeString(s)
		}
		return out
	default:
		return v
	}
}

// SanitizeDocument is Sanitize for a single document. A nil document yields an empty one.
func SanitizeDocument(doc storagemodels.Document) storagemodels.Document {
	out := make(storagemodels.Document, len(doc))
	for k, val := range doc {
		out[SanitizeString(k)] = Sanitize(val)
	}
	return out
}
