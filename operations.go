/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package astradb

import (
	"context"
	"time"

	"github.com/msmygit/n8n-nodes-astradb/datastore"
	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/metrics"
)

// Operation is one of the collection operations the node can run.
type Operation string

const (
	OpInsertOne              Operation = "insertOne"
	OpInsertMany             Operation = "insertMany"
	OpFindMany               Operation = "findMany"
	OpFindOne                Operation = "findOne"
	OpUpdateMany             Operation = "updateMany"
	OpDeleteMany             Operation = "deleteMany"
	OpFindOneAndUpdate       Operation = "findOneAndUpdate"
	OpFindOneAndReplace      Operation = "findOneAndReplace"
	OpFindOneAndDelete       Operation = "findOneAndDelete"
	OpEstimatedDocumentCount Operation = "estimatedDocumentCount"
)

// Operations lists every supported operation in display order.
var Operations = []Operation{
	OpInsertOne,
	OpInsertMany,
	OpFindMany,
	OpFindOne,
	OpUpdateMany,
	OpDeleteMany,
	OpFindOneAndUpdate,
	OpFindOneAndReplace,
	OpFindOneAndDelete,
	OpEstimatedDocumentCount,
}

// ParseOperation converts an operation parameter into an Operation.
func ParseOperation(name string) (Operation, error) {
	op := Operation(name)
	if _, ok := handlers[op]; !ok {
		return "", apperrors.NewUnsupportedOperationError(name)
	}
	return op, nil
}

func (op Operation) String() string {
	return string(op)
}

// handlerContext carries everything a handler needs for one item.
type handlerContext struct {
	ctx        context.Context
	op         Operation
	collection datastore.Collection
	params     itemParams
	metrics    *metrics.Collector
}

// call runs one database call and records it. Parameter validation happens
// before call, so rejected input never counts as a failed operation.
func (hc *handlerContext) call(fn func() (any, error)) (any, error) {
	start := time.Now()
	result, err := fn()
	hc.metrics.ObserveOperation(hc.op.String(), time.Since(start), err)
	return result, err
}

// handler runs one operation for one item and returns the raw collection result.
type handler func(hc *handlerContext) (any, error)

var handlers = map[Operation]handler{
	OpInsertOne:              insertOne,
	OpInsertMany:             insertMany,
	OpFindMany:               findMany,
	OpFindOne:                findOne,
	OpUpdateMany:             updateMany,
	OpDeleteMany:             deleteMany,
	OpFindOneAndUpdate:       findOneAndUpdate,
	OpFindOneAndReplace:      findOneAndReplace,
	OpFindOneAndDelete:       findOneAndDelete,
	OpEstimatedDocumentCount: estimatedDocumentCount,
}
