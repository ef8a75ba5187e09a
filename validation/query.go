/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// QueryKind selects the rule set applied by ValidateQuery.
type QueryKind int

const (
	// QueryFilter is a document selector.
	QueryFilter QueryKind = iota
	// QueryUpdate is a set of update operators.
	QueryUpdate
	// QueryDocument is a document to insert or a replacement.
	QueryDocument
)

// QueryResult is the outcome of ValidateQuery. Callers decide whether to abort.
type QueryResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// disallowedOperators execute arbitrary code on the server.
var disallowedOperators = map[string]struct{}{
	"$where":       {},
	"$function":    {},
	"$accumulator": {},
	"$eval":        {},
}

var filterOperators = map[string]struct{}{
	"$eq": {}, "$ne": {}, "$gt": {}, "$gte": {}, "$lt": {}, "$lte": {},
	"$in": {}, "$nin": {}, "$exists": {},
	"$and": {}, "$or": {}, "$nor": {}, "$not": {},
	"$all": {}, "$size": {}, "$elemMatch": {},
	"$regex": {}, "$options": {},
}

var updateOperators = map[string]struct{}{
	"$set": {}, "$unset": {}, "$inc": {}, "$mul": {}, "$min": {}, "$max": {},
	"$rename": {}, "$push": {}, "$pop": {}, "$pull": {}, "$addToSet": {},
	"$setOnInsert": {}, "$currentDate": {},
}

// ValidateQuery checks the shape of a filter, update or document and looks for
// disallowed operators at any depth.
func ValidateQuery(value any, label string, kind QueryKind) QueryResult {
	var r QueryResult

	switch {
	case value == nil:
		r.Errors = append(r.Errors, fmt.Sprintf("%s is required", label))
	case isArray(value):
		r.Errors = append(r.Errors, fmt.Sprintf("%s must be an object, not an array", label))
	default:
		obj, ok := asObject(value)
		if !ok {
			r.Errors = append(r.Errors, fmt.Sprintf("%s must be an object, got %T", label, value))
			break
		}
		if obj == nil {
			r.Errors = append(r.Errors, fmt.Sprintf("%s is required", label))
			break
		}
		r.Errors = append(r.Errors, disallowedIn(obj, label)...)
		switch kind {
		case QueryFilter:
			if len(obj) == 0 {
				r.Warnings = append(r.Warnings, fmt.Sprintf("empty %s matches all documents", label))
			}
			r.Errors = append(r.Errors, unknownFilterOperators(obj, label)...)
		case QueryUpdate:
			r.Errors = append(r.Errors, checkUpdate(obj, label)...)
		case QueryDocument:
			for _, k := range sortedKeys(obj) {
				if strings.HasPrefix(k, "$") {
					r.Errors = append(r.Errors, fmt.Sprintf("field names in %s must not start with $ (%s)", label, k))
				}
			}
		}
	}

	r.Valid = len(r.Errors) == 0
	return r
}

func disallowedIn(obj map[string]any, label string) []string {
	seen := make(map[string]struct{})
	var walk func(v any)
	walk = func(v any) {
		if m, ok := asObject(v); ok {
			for k, val := range m {
				if _, bad := disallowedOperators[k]; bad {
					seen[k] = struct{}{}
				}
				walk(val)
			}
			return
		}
		if arr, ok := v.([]any); ok {
			for _, val := range arr {
				walk(val)
			}
		}
	}
	walk(obj)

	ops := make([]string, 0, len(seen))
	for op := range seen {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	errs := make([]string, 0, len(ops))
	for _, op := range ops {
		errs = append(errs, fmt.Sprintf("operator %s is not allowed in %s", op, label))
	}
	return errs
}

func unknownFilterOperators(obj map[string]any, label string) []string {
	seen := make(map[string]struct{})
	var walk func(v any)
	walk = func(v any) {
		if m, ok := asObject(v); ok {
			for k, val := range m {
				if strings.HasPrefix(k, "$") {
					_, allowed := filterOperators[k]
					_, disallowed := disallowedOperators[k]
					if !allowed && !disallowed {
						seen[k] = struct{}{}
					}
				}
				walk(val)
			}
			return
		}
		if arr, ok := v.([]any); ok {
			for _, val := range arr {
				walk(val)
			}
		}
	}
	walk(obj)

	ops := make([]string, 0, len(seen))
	for op := range seen {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	errs := make([]string, 0, len(ops))
	for _, op := range ops {
		errs = append(errs, fmt.Sprintf("unsupported operator %s in %s", op, label))
	}
	return errs
}

func checkUpdate(obj map[string]any, label string) []string {
	if len(obj) == 0 {
		return []string{fmt.Sprintf("%s must contain at least one update operator", label)}
	}
	var errs []string
	for _, k := range sortedKeys(obj) {
		if _, bad := disallowedOperators[k]; bad {
			continue
		}
		if !strings.HasPrefix(k, "$") {
			errs = append(errs, fmt.Sprintf("field %q in %s must be wrapped in an update operator such as $set", k, label))
			continue
		}
		if _, ok := updateOperators[k]; !ok {
			errs = append(errs, fmt.Sprintf("%s is not a supported update operator", k))
			continue
		}
		fields, ok := asObject(obj[k])
		if !ok || len(fields) == 0 {
			errs = append(errs, fmt.Sprintf("operator %s in %s requires a non-empty object", k, label))
		}
	}
	return errs
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func queryFailure(label string, r QueryResult) error {
	return apperrors.NewQueryError(label, r.Errors)
}

// ParseFilter decodes and validates a filter parameter. Warnings are returned for logging.
func ParseFilter(raw any) (storagemodels.Filter, []string, error) {
	v, err := DecodeJSON(raw, "filter")
	if err != nil {
		return nil, nil, err
	}
	r := ValidateQuery(v, "filter", QueryFilter)
	if !r.Valid {
		return nil, r.Warnings, queryFailure("filter", r)
	}
	obj, _ := asObject(v)
	return storagemodels.Filter(obj), r.Warnings, nil
}

// ParseUpdate decodes and validates an update parameter.
func ParseUpdate(raw any) (storagemodels.Update, error) {
	v, err := DecodeJSON(raw, "update")
	if err != nil {
		return nil, err
	}
	r := ValidateQuery(v, "update", QueryUpdate)
	if !r.Valid {
		return nil, queryFailure("update", r)
	}
	obj, _ := asObject(v)
	return storagemodels.Update(obj), nil
}

// ParseDocument decodes and validates a document or replacement parameter.
func ParseDocument(raw any, parameter string) (storagemodels.Document, error) {
	v, err := DecodeJSON(raw, parameter)
	if err != nil {
		return nil, err
	}
	r := ValidateQuery(v, parameter, QueryDocument)
	if !r.Valid {
		return nil, queryFailure(parameter, r)
	}
	obj, _ := asObject(v)
	return storagemodels.Document(obj), nil
}

// ParseDocuments decodes and validates the documents parameter of insertMany.
// Every element must itself be a valid document.
func ParseDocuments(raw any) ([]storagemodels.Document, error) {
	v, err := DecodeJSON(raw, "documents")
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil, apperrors.NewQueryError("documents", []string{"documents is required"})
		}
		return nil, apperrors.NewQueryError("documents", []string{"documents must be an array of objects"})
	}
	if len(arr) == 0 {
		return nil, apperrors.NewQueryError("documents", []string{"documents must contain at least one document"})
	}

	docs := make([]storagemodels.Document, 0, len(arr))
	var errs []string
	for i, elem := range arr {
		label := fmt.Sprintf("documents[%d]", i)
		r := ValidateQuery(elem, label, QueryDocument)
		if !r.Valid {
			errs = append(errs, r.Errors...)
			continue
		}
		obj, _ := asObject(elem)
		docs = append(docs, storagemodels.Document(obj))
	}
	if len(errs) > 0 {
		return nil, apperrors.NewQueryError("documents", errs)
	}
	return docs, nil
}
