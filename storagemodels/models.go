/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"
)

// Document is a single JSON document as stored in a collection.
type Document map[string]any

// Filter selects documents. Values of this type have passed query validation.
type Filter map[string]any

// Update holds update operators ($set, $inc, ...). Values of this type have passed query validation.
type Update map[string]any

// IDField is the primary-key field of every document.
const IDField = "_id"

// ReturnDocument selects which version of the document a find-and-modify call returns.
type ReturnDocument string

const (
	// ReturnBefore returns the document as it was before the modification.
	ReturnBefore ReturnDocument = "before"
	// ReturnAfter returns the document as it is after the modification.
	ReturnAfter ReturnDocument = "after"
)

// SortField is one key of a sort specification. Direction is 1 or -1.
type SortField struct {
	Field     string
	Direction int
}

// Sort is an ordered sort specification; earlier fields take precedence.
type Sort []SortField

// Map returns the sort as a field->direction map. Key order is lost.
func (s Sort) Map() map[string]any {
	if len(s) == 0 {
		return nil
	}
	m := make(map[string]any, len(s))
	for _, f := range s {
		m[f.Field] = f.Direction
	}
	return m
}

// Options are the per-item options of an operation, built by validation.ParseOptions.
// Backends ignore fields that do not apply to the operation they execute.
type Options struct {
	// Limit caps the number of documents returned by find.
	Limit *int64
	// Skip is the number of matching documents to skip.
	Skip *int64
	// Sort orders matching documents.
	Sort Sort
	// Projection selects or excludes fields of returned documents.
	Projection map[string]any
	// Upsert inserts a document when an update or replace matches nothing.
	Upsert bool
	// ReturnDocument selects the before or after image for find-and-modify.
	ReturnDocument ReturnDocument
	// Timeout is advisory and not enforced by the node.
	Timeout time.Duration
	// Retries is advisory and not enforced by the node.
	Retries *int
}

// InsertOneResult is the outcome of inserting a single document.
type InsertOneResult struct {
	InsertedID   any
	Acknowledged bool
}

// InsertManyResult is the outcome of inserting several documents.
type InsertManyResult struct {
	InsertedIDs  []any
	Acknowledged bool
}

// UpdateResult is the outcome of updateMany.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedCount int64
	UpsertedID    any
	Acknowledged  bool
}

// DeleteResult is the outcome of deleteMany.
type DeleteResult struct {
	DeletedCount int64
	Acknowledged bool
}
