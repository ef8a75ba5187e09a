/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docmatch

import (
	"fmt"
	"sort"
	"time"

	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// Apply returns a copy of doc with update applied. $setOnInsert only takes
// effect when inserting is true. The _id field cannot be changed.
func Apply(doc storagemodels.Document, update storagemodels.Update, inserting bool) (storagemodels.Document, error) {
	out := CopyDocument(doc)
	if out == nil {
		out = storagemodels.Document{}
	}
	id, hadID := out[storagemodels.IDField]

	ops := make([]string, 0, len(update))
	for op := range update {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	for _, op := range ops {
		fields, ok := asMap(update[op])
		if !ok {
			return nil, fmt.Errorf("operator %s requires an object", op)
		}
		for _, path := range sortedKeys(fields) {
			if err := applyUpdate(out, op, path, fields[path], inserting); err != nil {
				return nil, err
			}
		}
	}

	if hadID {
		if newID, ok := out[storagemodels.IDField]; !ok || !Equal(newID, id) {
			return nil, fmt.Errorf("the %s field cannot be modified", storagemodels.IDField)
		}
	}
	return out, nil
}

func applyUpdate(doc map[string]any, op, path string, arg any, inserting bool) error {
	cur, exists := Lookup(doc, path)

	switch op {
	case "$set":
		setPath(doc, path, Copy(arg))
	case "$setOnInsert":
		if inserting {
			setPath(doc, path, Copy(arg))
		}
	case "$unset":
		unsetPath(doc, path)
	case "$inc", "$mul":
		if _, ok := toFloat(arg); !ok {
			return fmt.Errorf("%s value for %q must be a number", op, path)
		}
		if !exists {
			if op == "$inc" {
				setPath(doc, path, arg)
			} else {
				setPath(doc, path, zeroLike(arg))
			}
			return nil
		}
		if _, ok := toFloat(cur); !ok {
			return fmt.Errorf("cannot apply %s to non-numeric field %q", op, path)
		}
		setPath(doc, path, arithmetic(op, cur, arg))
	case "$min", "$max":
		if !exists {
			setPath(doc, path, Copy(arg))
			return nil
		}
		c := Compare(arg, cur)
		if (op == "$min" && c < 0) || (op == "$max" && c > 0) {
			setPath(doc, path, Copy(arg))
		}
	case "$rename":
		target, ok := arg.(string)
		if !ok || target == "" {
			return fmt.Errorf("$rename target for %q must be a non-empty string", path)
		}
		if exists {
			unsetPath(doc, path)
			setPath(doc, target, cur)
		}
	case "$push", "$addToSet":
		arr, err := arrayField(cur, exists, op, path)
		if err != nil {
			return err
		}
		items := []any{arg}
		if m, ok := asMap(arg); ok {
			if each, ok := m["$each"]; ok {
				if items, ok = asSlice(each); !ok {
					return fmt.Errorf("$each for %q must be an array", path)
				}
			}
		}
		for _, item := range items {
			if op == "$addToSet" && equalsOrContains(arr, item) {
				continue
			}
			arr = append(arr, Copy(item))
		}
		setPath(doc, path, arr)
	case "$pop":
		arr, err := arrayField(cur, exists, op, path)
		if err != nil || len(arr) == 0 {
			return err
		}
		if f, _ := toFloat(arg); f < 0 {
			arr = arr[1:]
		} else {
			arr = arr[:len(arr)-1]
		}
		setPath(doc, path, arr)
	case "$pull":
		arr, err := arrayField(cur, exists, op, path)
		if err != nil || !exists {
			return err
		}
		kept := make([]any, 0, len(arr))
		for _, elem := range arr {
			m, err := matchField(elem, true, arg)
			if err != nil {
				return err
			}
			if !m {
				kept = append(kept, elem)
			}
		}
		setPath(doc, path, kept)
	case "$currentDate":
		setPath(doc, path, now())
	default:
		return fmt.Errorf("unsupported update operator %s", op)
	}
	return nil
}

func arrayField(cur any, exists bool, op, path string) ([]any, error) {
	if !exists {
		return []any{}, nil
	}
	arr, ok := asSlice(cur)
	if !ok {
		return nil, fmt.Errorf("cannot apply %s to non-array field %q", op, path)
	}
	return append([]any(nil), arr...), nil
}

func arithmetic(op string, cur, arg any) any {
	ci, curInt := cur.(int64)
	ai, argInt := arg.(int64)
	if curInt && argInt {
		if op == "$inc" {
			return ci + ai
		}
		return ci * ai
	}
	cf, _ := toFloat(cur)
	af, _ := toFloat(arg)
	var r float64
	if op == "$inc" {
		r = cf + af
	} else {
		r = cf * af
	}
	return r
}

func zeroLike(v any) any {
	if _, ok := v.(int64); ok {
		return int64(0)
	}
	return float64(0)
}

// SeedFromFilter builds the initial document of an upsert from the equality
// conditions of filter, including those nested in $and.
func SeedFromFilter(filter storagemodels.Filter) storagemodels.Document {
	seed := storagemodels.Document{}
	var collect func(f map[string]any)
	collect = func(f map[string]any) {
		for k, v := range f {
			if k == "$and" {
				if clauses, ok := asSlice(v); ok {
					for _, c := range clauses {
						if m, ok := asMap(c); ok {
							collect(m)
						}
					}
				}
				continue
			}
			if len(k) > 0 && k[0] == '$' {
				continue
			}
			if ops, ok := operatorObject(v); ok {
				if eq, ok := ops["$eq"]; ok {
					setPath(seed, k, Copy(eq))
				}
				continue
			}
			setPath(seed, k, Copy(v))
		}
	}
	collect(filter)
	return seed
}

// Changed reports whether two versions of a document differ.
func Changed(before, after storagemodels.Document) bool {
	return !Equal(map[string]any(before), map[string]any(after))
}
