/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package astradb

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msmygit/n8n-nodes-astradb/config"
	"github.com/msmygit/n8n-nodes-astradb/credentials"
	"github.com/msmygit/n8n-nodes-astradb/datastore/mock"
	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/metrics"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
	"github.com/msmygit/n8n-nodes-astradb/workflow"
)

const testCollection = "users"

func testCredentials() map[string]any {
	return map[string]any{
		"endpoint": " https://db-id-us-east1.apps.astra.datastax.com ",
		"token":    "AstraCS:secret",
	}
}

func newExecution(params map[string]any, n int) *workflow.Execution {
	items := make([]workflow.Item, n)
	for i := range items {
		items[i] = workflow.Item{JSON: map[string]any{"i": i}}
	}
	if _, ok := params[ParamCollection]; !ok {
		params[ParamCollection] = testCollection
	}
	return workflow.NewExecution(params, items...).WithCredentials(credentials.Name, testCredentials())
}

func newTestNode(t *testing.T, db *mock.Client, opts ...Option) *Node {
	t.Helper()
	node, err := New(append([]Option{WithOpener(db.Opener())}, opts...)...)
	require.NoError(t, err)
	return node
}

func assertPaired(t *testing.T, items []workflow.Item, want ...int) {
	t.Helper()
	require.Len(t, items, len(want))
	for i, item := range items {
		require.NotNil(t, item.PairedItem, "item %d is not paired", i)
		assert.Equal(t, want[i], item.PairedItem.Item, "item %d", i)
	}
}

func TestFindOneMissesEmitEmptyRecords(t *testing.T) {
	db := mock.New()
	node := newTestNode(t, db)
	exec := newExecution(map[string]any{
		ParamOperation: "findOne",
		ParamFilter:    `{"name": "nobody"}`,
	}, 3)

	out, err := node.Execute(context.Background(), exec)
	require.NoError(t, err)
	assertPaired(t, out, 0, 1, 2)
	for _, item := range out {
		assert.Equal(t, map[string]any{}, item.JSON)
	}

	assert.Equal(t, 1, db.Opens())
	assert.Equal(t, 1, db.Closes())
	assert.Len(t, db.Calls(), 3)
	assert.Equal(t, "https://db-id-us-east1.apps.astra.datastax.com", db.Credentials()[0].Endpoint)
}

func TestFindManyFansOut(t *testing.T) {
	db := mock.New()
	db.Seed(DefaultKeyspace, testCollection,
		storagemodels.Document{"_id": "a", "name": "<b>Ada</b>", "age": int64(36)},
		storagemodels.Document{"_id": "b", "name": "Grace", "age": int64(85)},
		storagemodels.Document{"_id": "c", "name": "Kid", "age": int64(9)},
	)
	node := newTestNode(t, db)
	exec := newExecution(map[string]any{
		ParamOperation: "findMany",
		ParamFilter:    `{"age": {"$gt": 18}}`,
		ParamOptions:   `{"sort": {"age": -1}}`,
	}, 1)

	out, err := node.Execute(context.Background(), exec)
	require.NoError(t, err)
	assertPaired(t, out, 0, 0)
	assert.Equal(t, "b", out[0].JSON["_id"])
	assert.Equal(t, "Ada", out[1].JSON["name"], "markup is stripped from echoed documents")
}

func TestFindManyNoResults(t *testing.T) {
	node := newTestNode(t, mock.New())
	out, err := node.Execute(context.Background(), newExecution(map[string]any{ParamOperation: "findMany"}, 2))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestContinueOnFailIsolatesItem(t *testing.T) {
	db := mock.New()
	db.Seed(DefaultKeyspace, testCollection, storagemodels.Document{"_id": "a", "name": "Ada"})
	node := newTestNode(t, db)
	exec := newExecution(map[string]any{
		ParamOperation: "findOne",
		ParamFilter:    `{"name": "Ada"}`,
	}, 3).
		WithItemParameter(1, ParamFilter, `{"$where": "sleep(1000)"}`).
		WithContinueOnFail(true)

	out, err := node.Execute(context.Background(), exec)
	require.NoError(t, err)
	assertPaired(t, out, 0, 1, 2)

	assert.Equal(t, "a", out[0].JSON["_id"])
	assert.Equal(t, false, out[1].JSON["success"])
	assert.Equal(t, "findOne", out[1].JSON["operation"])
	assert.Equal(t, "QueryError", out[1].JSON["errorType"])
	assert.Contains(t, out[1].JSON["error"], "$where")
	assert.Equal(t, "a", out[2].JSON["_id"])

	assert.Len(t, db.Calls(), 2, "the invalid item never reaches the database")
}

func TestItemFailureStopsWithoutContinueOnFail(t *testing.T) {
	db := mock.New()
	node := newTestNode(t, db)
	exec := newExecution(map[string]any{ParamOperation: "insertOne", ParamDocument: `{"n": 1}`}, 3).
		WithItemParameter(1, ParamDocument, `{"n": `)

	out, err := node.Execute(context.Background(), exec)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, apperrors.ErrInvalidJSON)
	assert.Contains(t, err.Error(), "item 1")
	assert.Len(t, db.Documents(DefaultKeyspace, testCollection), 1)
	assert.Equal(t, 1, db.Closes())
}

func TestDatabaseErrorUnderContinueOnFail(t *testing.T) {
	db := mock.New().WithError("insertOne", apperrors.NewDatabaseError("insertOne", errors.New("unavailable")))
	node := newTestNode(t, db)
	exec := newExecution(map[string]any{ParamOperation: "insertOne", ParamDocument: `{"n": 1}`}, 2).
		WithContinueOnFail(true)

	out, err := node.Execute(context.Background(), exec)
	require.NoError(t, err)
	assertPaired(t, out, 0, 1)
	for _, item := range out {
		assert.Equal(t, "DatabaseError", item.JSON["errorType"])
	}
}

func TestUnknownOperationRejected(t *testing.T) {
	db := mock.New()
	node := newTestNode(t, db)

	_, err := node.Execute(context.Background(), newExecution(map[string]any{ParamOperation: "aggregate"}, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedOperation)
	assert.Equal(t, 0, db.Opens())
}

func TestSetupFailureUnderContinueOnFail(t *testing.T) {
	db := mock.New()
	node := newTestNode(t, db)
	exec := newExecution(map[string]any{
		ParamOperation:  "findOne",
		ParamCollection: "1users",
	}, 3).WithContinueOnFail(true)

	out, err := node.Execute(context.Background(), exec)
	require.NoError(t, err)
	assertPaired(t, out, 0, 1, 2)
	for _, item := range out {
		assert.Equal(t, "IdentifierError", item.JSON["errorType"])
		assert.Equal(t, "findOne", item.JSON["operation"])
	}
	assert.Equal(t, 0, db.Opens())
}

func TestSetupFailures(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		creds  map[string]any
		want   error
	}{
		{
			name:   "missing token",
			params: map[string]any{ParamOperation: "findOne"},
			creds:  map[string]any{"endpoint": "https://db.example.com"},
			want:   apperrors.ErrInvalidCredentials,
		},
		{
			name:   "reserved keyspace",
			params: map[string]any{ParamOperation: "findOne", ParamKeyspace: "system"},
			creds:  testCredentials(),
			want:   apperrors.ErrInvalidIdentifier,
		},
		{
			name:   "empty collection",
			params: map[string]any{ParamOperation: "findOne", ParamCollection: ""},
			creds:  testCredentials(),
			want:   apperrors.ErrInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := mock.New()
			node := newTestNode(t, db)
			exec := newExecution(tt.params, 1).WithCredentials(credentials.Name, tt.creds)

			_, err := node.Execute(context.Background(), exec)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, db.Opens())
		})
	}
}

func TestOpenFailure(t *testing.T) {
	db := mock.New().WithOpenError(errors.New("dial tcp: refused"))
	node := newTestNode(t, db)

	_, err := node.Execute(context.Background(), newExecution(map[string]any{ParamOperation: "estimatedDocumentCount"}, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
	assert.Equal(t, 0, db.Closes())
}

func TestEnvelopeOperations(t *testing.T) {
	ctx := context.Background()
	db := mock.New()
	node := newTestNode(t, db)

	run := func(params map[string]any) map[string]any {
		t.Helper()
		out, err := node.Execute(ctx, newExecution(params, 1))
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, params[ParamOperation], out[0].JSON["operation"])
		assert.Equal(t, true, out[0].JSON["success"])
		return out[0].JSON
	}

	got := run(map[string]any{ParamOperation: "insertOne", ParamDocument: `{"_id": "x", "n": 1}`})
	assert.Equal(t, "x", got["insertedId"])
	assert.Equal(t, true, got["acknowledged"])

	got = run(map[string]any{ParamOperation: "insertMany", ParamDocuments: `[{"_id": "y", "n": 2}, {"_id": "z", "n": 3}]`})
	assert.Equal(t, 2, got["insertedCount"])

	got = run(map[string]any{
		ParamOperation: "updateMany",
		ParamFilter:    `{"n": {"$gte": 2}}`,
		ParamUpdate:    `{"$inc": {"n": 10}}`,
	})
	assert.Equal(t, int64(2), got["matchedCount"])
	assert.NotContains(t, got, "upsertedId")

	got = run(map[string]any{
		ParamOperation: "findOneAndUpdate",
		ParamFilter:    `{"_id": "x"}`,
		ParamUpdate:    `{"$set": {"tag": "<i>new</i>"}}`,
		ParamOptions:   `{"returnDocument": "after"}`,
	})
	assert.Equal(t, true, got["found"])
	assert.Equal(t, "new", got["data"].(map[string]any)["tag"])

	got = run(map[string]any{
		ParamOperation:   "findOneAndReplace",
		ParamFilter:      `{"_id": "nope"}`,
		ParamReplacement: `{"n": 0}`,
	})
	assert.Equal(t, false, got["found"])
	assert.Nil(t, got["data"])

	got = run(map[string]any{ParamOperation: "findOneAndDelete", ParamFilter: `{"_id": "y"}`})
	assert.Equal(t, true, got["found"])

	got = run(map[string]any{ParamOperation: "deleteMany", ParamFilter: `{"_id": "z"}`})
	assert.Equal(t, int64(1), got["deletedCount"])

	got = run(map[string]any{ParamOperation: "estimatedDocumentCount"})
	assert.Equal(t, int64(1), got["count"])
}

func TestOptionsReachCollection(t *testing.T) {
	db := mock.New()
	node := newTestNode(t, db)
	exec := newExecution(map[string]any{
		ParamOperation: "findMany",
		ParamOptions:   `{"limit": 5, "skip": 1, "sort": {"b": 1, "a": -1}}`,
	}, 1)

	_, err := node.Execute(context.Background(), exec)
	require.NoError(t, err)
	calls := db.Calls()
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].Options)
	assert.Equal(t, int64(5), *calls[0].Options.Limit)
	assert.Equal(t, storagemodels.Sort{{Field: "b", Direction: 1}, {Field: "a", Direction: -1}}, calls[0].Options.Sort)
	assert.Equal(t, DefaultKeyspace, calls[0].Keyspace)
}

func TestMetricsRecorded(t *testing.T) {
	collector := metrics.NewCollector(nil)
	node := newTestNode(t, mock.New(), WithMetrics(collector))

	_, err := node.Execute(context.Background(), newExecution(map[string]any{ParamOperation: "findOne"}, 2))
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Operations.WithLabelValues("findOne", metrics.StatusSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Items.WithLabelValues("findOne")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Executions))
}

func TestMetricsSkipRejectedInput(t *testing.T) {
	collector := metrics.NewCollector(nil)
	db := mock.New()
	node := newTestNode(t, db, WithMetrics(collector))
	exec := newExecution(map[string]any{
		ParamOperation: "findOne",
		ParamFilter:    `{"name": "Ada"}`,
	}, 2).
		WithItemParameter(1, ParamFilter, `{"$where": "sleep(1000)"}`).
		WithContinueOnFail(true)

	out, err := node.Execute(context.Background(), exec)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, false, out[1].JSON["success"])

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Operations.WithLabelValues("findOne", metrics.StatusSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.Operations.WithLabelValues("findOne", metrics.StatusError)),
		"rejected filters never reach the database")
	assert.Equal(t, 1, testutil.CollectAndCount(collector.Duration))
}

func TestHandlerTableCoversOperations(t *testing.T) {
	assert.Len(t, handlers, len(Operations))
	for _, op := range Operations {
		assert.NotNil(t, handlers[op], "no handler for %s", op)
		_, labelled := operationLabels[op]
		assert.True(t, labelled, "no label for %s", op)

		parsed, err := ParseOperation(string(op))
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}
	_, err := ParseOperation("find")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedOperation)
}

func TestNewResolvesBackendFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = config.BackendMemory
	node, err := New(WithConfig(cfg))
	require.NoError(t, err)
	assert.NotNil(t, node.opener)

	cfg = config.Default()
	cfg.Backend = "cassandra"
	_, err = New(WithConfig(cfg))
	assert.Error(t, err)
}

func TestDescription(t *testing.T) {
	node := newTestNode(t, mock.New())
	d := node.Description()

	assert.Equal(t, credentials.Name, d.Credentials[0].Name)
	byName := make(map[string]workflow.Property)
	for _, p := range d.Properties {
		byName[p.Name] = p
	}
	assert.Len(t, byName[ParamOperation].Options, len(Operations))
	assert.Equal(t, DefaultKeyspace, byName[ParamKeyspace].Default)

	filter := byName[ParamFilter]
	assert.True(t, filter.DisplayOptions.Visible(map[string]any{ParamOperation: "deleteMany"}))
	assert.False(t, filter.DisplayOptions.Visible(map[string]any{ParamOperation: "insertOne"}))

	assert.Equal(t, config.DefaultAdminEndpoint, node.CredentialDescription().Test.URL)
}
