/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docmatch

import (
	"sort"

	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// Filter returns the documents of docs matching filter, in their original order.
func Filter(docs []storagemodels.Document, filter storagemodels.Filter) ([]storagemodels.Document, error) {
	out := make([]storagemodels.Document, 0, len(docs))
	for _, doc := range docs {
		ok, err := Match(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Sort orders docs in place. The sort is stable, so ties keep insertion order.
func Sort(docs []storagemodels.Document, spec storagemodels.Sort) {
	if len(spec) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return less(docs[i], docs[j], spec)
	})
}

// Window applies skip and limit.
func Window(docs []storagemodels.Document, skip, limit *int64) []storagemodels.Document {
	if skip != nil && *skip > 0 {
		if *skip >= int64(len(docs)) {
			return nil
		}
		docs = docs[*skip:]
	}
	if limit != nil && *limit > 0 && *limit < int64(len(docs)) {
		docs = docs[:*limit]
	}
	return docs
}

// Project returns a copy of doc reduced to the projection. Fields set to 1/true
// select an inclusion projection, 0/false an exclusion one; _id is kept unless
// explicitly excluded. {"$slice": n} limits an array field.
func Project(doc storagemodels.Document, projection map[string]any) storagemodels.Document {
	if doc == nil {
		return nil
	}
	if len(projection) == 0 {
		return CopyDocument(doc)
	}

	include := false
	idIncluded := true
	slices := make(map[string]int)
	for field, v := range projection {
		if m, ok := asMap(v); ok {
			if n, ok := toFloat(m["$slice"]); ok {
				slices[field] = int(n)
			}
			continue
		}
		on := truthy(v)
		if field == storagemodels.IDField {
			idIncluded = on
			continue
		}
		if on {
			include = true
		}
	}

	var out storagemodels.Document
	if include {
		out = storagemodels.Document{}
		for field, v := range projection {
			if field == storagemodels.IDField || !truthy(v) {
				continue
			}
			if val, ok := Lookup(doc, field); ok {
				setPath(out, field, Copy(val))
			}
		}
		for field := range slices {
			if val, ok := Lookup(doc, field); ok {
				setPath(out, field, Copy(val))
			}
		}
		if id, ok := doc[storagemodels.IDField]; ok && idIncluded {
			out[storagemodels.IDField] = id
		}
	} else {
		out = CopyDocument(doc)
		for field, v := range projection {
			if _, isSlice := slices[field]; isSlice {
				continue
			}
			if !truthy(v) {
				unsetPath(out, field)
			}
		}
	}

	for field, n := range slices {
		val, ok := Lookup(out, field)
		if !ok {
			continue
		}
		arr, ok := asSlice(val)
		if !ok {
			continue
		}
		setPath(out, field, sliceArray(arr, n))
	}
	return out
}

func sliceArray(arr []any, n int) []any {
	switch {
	case n >= 0 && n < len(arr):
		return arr[:n]
	case n < 0 && -n < len(arr):
		return arr[len(arr)+n:]
	}
	return arr
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case nil:
		return false
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}

// Select runs the whole find pipeline: filter, sort, skip/limit, projection.
func Select(docs []storagemodels.Document, filter storagemodels.Filter, opts storagemodels.Options) ([]storagemodels.Document, error) {
	matched, err := Filter(docs, filter)
	if err != nil {
		return nil, err
	}
	Sort(matched, opts.Sort)
	matched = Window(matched, opts.Skip, opts.Limit)

	out := make([]storagemodels.Document, 0, len(matched))
	for _, doc := range matched {
		out = append(out, Project(doc, opts.Projection))
	}
	return out, nil
}

// First returns the index in docs of the first document matching filter under
// the given sort order, or -1 when none matches.
func First(docs []storagemodels.Document, filter storagemodels.Filter, order storagemodels.Sort) (int, error) {
	best := -1
	for i, doc := range docs {
		ok, err := Match(doc, filter)
		if err != nil {
			return -1, err
		}
		if !ok {
			continue
		}
		if best < 0 || less(doc, docs[best], order) {
			best = i
		}
	}
	return best, nil
}

func less(a, b storagemodels.Document, order storagemodels.Sort) bool {
	for _, f := range order {
		va, _ := Lookup(a, f.Field)
		vb, _ := Lookup(b, f.Field)
		if c := Compare(va, vb); c != 0 {
			return c*f.Direction < 0
		}
	}
	return false
}

// Upserted builds the document inserted by an upsert that matched nothing.
func Upserted(filter storagemodels.Filter, update storagemodels.Update) (storagemodels.Document, error) {
	return Apply(SeedFromFilter(filter), update, true)
}
