/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package astradb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/msmygit/n8n-nodes-astradb/config"
	"github.com/msmygit/n8n-nodes-astradb/credentials"
	"github.com/msmygit/n8n-nodes-astradb/datastore"
	"github.com/msmygit/n8n-nodes-astradb/internal/logging"
	"github.com/msmygit/n8n-nodes-astradb/metrics"
	"github.com/msmygit/n8n-nodes-astradb/registry"
	"github.com/msmygit/n8n-nodes-astradb/response"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
	"github.com/msmygit/n8n-nodes-astradb/validation"
	"github.com/msmygit/n8n-nodes-astradb/workflow"
)

// Node runs collection operations for workflow items.
type Node struct {
	cfg     *config.Config
	opener  datastore.Opener
	logger  *zap.Logger
	metrics *metrics.Collector
}

// Option configures a Node
type Option func(*Node)

// WithConfig sets the configuration. The backend it names supplies the opener
// unless WithOpener is also given.
func WithConfig(cfg *config.Config) Option {
	return func(n *Node) { n.cfg = cfg }
}

// WithOpener sets how the database client is opened.
func WithOpener(opener datastore.Opener) Option {
	return func(n *Node) { n.opener = opener }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(n *Node) { n.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(n *Node) { n.metrics = c }
}

// New creates a node.
func New(opts ...Option) (*Node, error) {
	n := &Node{}
	for _, opt := range opts {
		opt(n)
	}
	if n.cfg == nil {
		n.cfg = config.Default()
	}
	n.logger = logging.OrNop(n.logger)
	if n.opener == nil {
		opener, err := registry.Opener(n.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve backend: %w", err)
		}
		n.opener = opener
	}
	return n, nil
}

// target is what every item of one execution works against.
type target struct {
	operation  Operation
	keyspace   string
	collection string
}

// Execute runs the configured operation once per input item, in order.
func (n *Node) Execute(ctx context.Context, exec workflow.ExecuteFunctions) ([]workflow.Item, error) {
	items := exec.GetInputData()
	logger := n.logger.With(zap.String("executionId", uuid.NewString()))
	n.metrics.IncExecutions()

	rawOp, _ := stringParam(exec, ParamOperation, 0, "")
	logger.Info("execution started", zap.String("operation", rawOp), zap.Int("items", len(items)))

	tgt, client, err := n.prepare(ctx, exec)
	if err != nil {
		logger.Error("execution setup failed", zap.Error(err))
		return n.failAll(exec, items, rawOp, err)
	}
	defer func() {
		if err := client.Close(ctx); err != nil {
			logger.Warn("failed to close database client", zap.Error(err))
		}
	}()

	collection := client.Collection(tgt.keyspace, tgt.collection)
	out := make([]workflow.Item, 0, len(items))

	for i := range items {
		records, err := n.runItem(ctx, exec, collection, tgt.operation, i, logger)
		if err != nil {
			if !exec.ContinueOnFail() {
				logger.Error("item failed", zap.Int("item", i), zap.Error(err))
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			logger.Warn("item failed, continuing", zap.Int("item", i), zap.Error(err))
			records = []workflow.Item{workflow.NewItem(response.FormatError(tgt.operation.String(), err).Map(), i)}
		}
		n.metrics.AddItems(tgt.operation.String(), len(records))
		out = append(out, records...)
	}

	logger.Info("execution finished", zap.Int("outputItems", len(out)))
	return out, nil
}

// prepare validates credentials and identifiers and opens the client. It runs
// once per execution.
func (n *Node) prepare(ctx context.Context, exec workflow.ExecuteFunctions) (target, datastore.Client, error) {
	var tgt target

	raw, err := exec.GetCredentials(ctx, credentials.Name)
	if err != nil {
		return tgt, nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	creds, err := validation.ValidateCredentials(raw)
	if err != nil {
		return tgt, nil, err
	}

	name, err := stringParam(exec, ParamOperation, 0, "")
	if err != nil {
		return tgt, nil, err
	}
	if tgt.operation, err = ParseOperation(name); err != nil {
		return tgt, nil, err
	}

	if tgt.keyspace, err = stringParam(exec, ParamKeyspace, 0, DefaultKeyspace); err != nil {
		return tgt, nil, err
	}
	if err := validation.ValidateIdentifier(tgt.keyspace, validation.KindKeyspace); err != nil {
		return tgt, nil, err
	}
	if tgt.collection, err = stringParam(exec, ParamCollection, 0, ""); err != nil {
		return tgt, nil, err
	}
	if err := validation.ValidateIdentifier(tgt.collection, validation.KindCollection); err != nil {
		return tgt, nil, err
	}

	client, err := n.opener(ctx, creds)
	if err != nil {
		return tgt, nil, fmt.Errorf("failed to open database client: %w", err)
	}
	return tgt, client, nil
}

// failAll handles a failure before the item loop: one error record per item
// under continue-on-fail, otherwise the error itself.
func (n *Node) failAll(exec workflow.ExecuteFunctions, items []workflow.Item, operation string, err error) ([]workflow.Item, error) {
	if !exec.ContinueOnFail() {
		return nil, err
	}
	out := make([]workflow.Item, len(items))
	for i := range items {
		out[i] = workflow.NewItem(response.FormatError(operation, err).Map(), i)
	}
	return out, nil
}

func (n *Node) runItem(ctx context.Context, exec workflow.ExecuteFunctions, collection datastore.Collection, op Operation, index int, logger *zap.Logger) ([]workflow.Item, error) {
	hc := &handlerContext{
		ctx:        ctx,
		op:         op,
		collection: collection,
		params:     itemParams{exec: exec, index: index, logger: logger},
		metrics:    n.metrics,
	}

	result, err := handlers[op](hc)
	if err != nil {
		return nil, err
	}
	return shape(op, result, index), nil
}

// shape turns a handler result into output items. findMany fans out one item per
// document and findOne emits the bare document; every other operation emits a
// single envelope.
func shape(op Operation, result any, index int) []workflow.Item {
	switch op {
	case OpFindMany:
		docs, _ := result.([]storagemodels.Document)
		out := make([]workflow.Item, 0, len(docs))
		for _, doc := range docs {
			out = append(out, workflow.NewItem(validation.SanitizeDocument(doc), index))
		}
		return out
	case OpFindOne:
		doc, _ := result.(storagemodels.Document)
		return []workflow.Item{workflow.NewItem(validation.SanitizeDocument(doc), index)}
	case OpFindOneAndUpdate, OpFindOneAndReplace, OpFindOneAndDelete:
		if doc, _ := result.(storagemodels.Document); doc != nil {
			result = validation.SanitizeDocument(doc)
		}
	}
	return []workflow.Item{workflow.NewItem(response.Format(op.String(), result).Map(), index)}
}
