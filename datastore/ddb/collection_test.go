/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// fakeTable is an in-memory stand-in for a DynamoDB table keyed by PK/SK.
type fakeTable struct {
	mu         sync.Mutex
	items      map[string]map[string]types.AttributeValue
	throttle   int
	queryCalls int
}

func newFakeTable() *fakeTable {
	return &fakeTable{items: make(map[string]map[string]types.AttributeValue)}
}

func attrString(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func itemKey(item map[string]types.AttributeValue) string {
	return attrString(item[attrPK]) + "|" + attrString(item[attrSK])
}

func (f *fakeTable) revisionMatches(existing map[string]types.AttributeValue, values map[string]types.AttributeValue) bool {
	var have, want int64
	if existing == nil {
		return false
	}
	if err := attributevalue.Unmarshal(existing["Rev"], &have); err != nil {
		return false
	}
	if err := attributevalue.Unmarshal(values[":rev"], &want); err != nil {
		return false
	}
	return have == want
}

func (f *fakeTable) Query(ctx context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if f.throttle > 0 {
		f.throttle--
		return nil, &types.ProvisionedThroughputExceededException{Message: aws.String("slow down")}
	}

	pk := attrString(in.ExpressionAttributeValues[":pkVal"])
	var keys []string
	for k, item := range f.items {
		if attrString(item[attrPK]) == pk {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		last := itemKey(in.ExclusiveStartKey)
		for i, k := range keys {
			if k == last {
				start = i + 1
			}
		}
	}
	end := len(keys)
	if in.Limit != nil && start+int(*in.Limit) < end {
		end = start + int(*in.Limit)
	}

	out := &sdk.QueryOutput{Count: int32(end - start)}
	if in.Select != types.SelectCount {
		for _, k := range keys[start:end] {
			out.Items = append(out.Items, f.items[k])
		}
	}
	if end < len(keys) {
		lastItem := f.items[keys[end-1]]
		out.LastEvaluatedKey = map[string]types.AttributeValue{attrPK: lastItem[attrPK], attrSK: lastItem[attrSK]}
	}
	return out, nil
}

func (f *fakeTable) PutItem(ctx context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := itemKey(in.Item)
	existing := f.items[key]
	switch aws.ToString(in.ConditionExpression) {
	case condNotExists:
		if existing != nil {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
		}
	case condRevision:
		if !f.revisionMatches(existing, in.ExpressionAttributeValues) {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("revision")}
		}
	}
	f.items[key] = in.Item
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeTable) DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := itemKey(in.Key)
	if aws.ToString(in.ConditionExpression) == condRevision && !f.revisionMatches(f.items[key], in.ExpressionAttributeValues) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("revision")}
	}
	delete(f.items, key)
	return &sdk.DeleteItemOutput{}, nil
}

func newTestCollection(t *testing.T, pageSize int32) (*fakeTable, *Collection) {
	t.Helper()
	table := newFakeTable()
	client := NewClient(table, "docs",
		storagemodels.WithPageSize(pageSize),
		storagemodels.WithRetryBackoff(time.Millisecond),
	)
	return table, client.Collection("ks", "users").(*Collection)
}

func TestDynamoDBCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	_, col := newTestCollection(t, 2)

	res, err := col.InsertMany(ctx, []storagemodels.Document{
		{"_id": "a", "name": "Ada", "age": int64(36), "tags": []any{"math"}},
		{"_id": "b", "name": "Grace", "age": int64(85), "score": 9.5},
		{"_id": "c", "name": "Linus", "age": int64(54)},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, res.InsertedIDs)

	t.Run("FindFollowsPages", func(t *testing.T) {
		docs, err := col.Find(ctx, storagemodels.Filter{}, nil)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, int64(36), docs[0]["age"], "numbers decode as int64")
		assert.Equal(t, 9.5, docs[1]["score"])
		assert.Equal(t, []any{"math"}, docs[0]["tags"])
	})

	t.Run("Count", func(t *testing.T) {
		n, err := col.EstimatedDocumentCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("DuplicateInsert", func(t *testing.T) {
		_, err := col.InsertOne(ctx, storagemodels.Document{"_id": "a"})
		require.Error(t, err)
		assert.True(t, apperrors.IsDatabaseError(err))
		assert.False(t, apperrors.IsConditionFailed(err))
	})

	t.Run("UpdateMany", func(t *testing.T) {
		upd, err := col.UpdateMany(ctx, storagemodels.Filter{"age": map[string]any{"$gt": int64(50)}},
			storagemodels.Update{"$inc": map[string]any{"age": int64(1)}}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), upd.MatchedCount)
		assert.Equal(t, int64(2), upd.ModifiedCount)

		doc, err := col.FindOne(ctx, storagemodels.Filter{"_id": "b"}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(86), doc["age"])
	})

	t.Run("FindOneAndUpdateBefore", func(t *testing.T) {
		before, err := col.FindOneAndUpdate(ctx, storagemodels.Filter{"_id": "a"},
			storagemodels.Update{"$set": map[string]any{"name": "Ada L."}},
			&storagemodels.Options{ReturnDocument: storagemodels.ReturnBefore})
		require.NoError(t, err)
		assert.Equal(t, "Ada", before["name"])
	})

	t.Run("FindOneAndReplace", func(t *testing.T) {
		after, err := col.FindOneAndReplace(ctx, storagemodels.Filter{"name": "Linus"},
			storagemodels.Document{"name": "Linus T."},
			&storagemodels.Options{ReturnDocument: storagemodels.ReturnAfter})
		require.NoError(t, err)
		assert.Equal(t, storagemodels.Document{"_id": "c", "name": "Linus T."}, after)
	})

	t.Run("FindOneAndDeleteAndDeleteMany", func(t *testing.T) {
		gone, err := col.FindOneAndDelete(ctx, storagemodels.Filter{},
			&storagemodels.Options{Sort: storagemodels.Sort{{Field: "age", Direction: -1}}})
		require.NoError(t, err)
		assert.Equal(t, "b", gone["_id"])

		del, err := col.DeleteMany(ctx, storagemodels.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), del.DeletedCount)

		missing, err := col.FindOne(ctx, storagemodels.Filter{}, nil)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestDynamoDBUpsert(t *testing.T) {
	ctx := context.Background()
	_, col := newTestCollection(t, 10)

	res, err := col.UpdateMany(ctx, storagemodels.Filter{"email": "a@b.c"},
		storagemodels.Update{"$set": map[string]any{"plan": "pro"}},
		&storagemodels.Options{Upsert: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpsertedCount)
	assert.NotEmpty(t, res.UpsertedID)

	doc, err := col.FindOne(ctx, storagemodels.Filter{"email": "a@b.c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "pro", doc["plan"])
}

func TestDynamoDBStaleRevision(t *testing.T) {
	ctx := context.Background()
	_, col := newTestCollection(t, 10)

	_, err := col.InsertOne(ctx, storagemodels.Document{"_id": "x", "n": int64(1)})
	require.NoError(t, err)

	records, err := col.client.load(ctx, col.partition)
	require.NoError(t, err)
	stale := records[0]

	_, err = col.UpdateMany(ctx, storagemodels.Filter{"_id": "x"}, storagemodels.Update{"$inc": map[string]any{"n": int64(1)}}, nil)
	require.NoError(t, err)

	err = col.replace(ctx, "findOneAndUpdate", stale, storagemodels.Document{"_id": "x", "n": int64(5)})
	assert.True(t, apperrors.IsConditionFailed(err), "got %v", err)

	err = col.remove(ctx, "findOneAndDelete", stale)
	assert.True(t, apperrors.IsConditionFailed(err), "got %v", err)
}

func TestDynamoDBQueryRetry(t *testing.T) {
	ctx := context.Background()
	table, col := newTestCollection(t, 10)
	table.throttle = 2

	n, err := col.EstimatedDocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, 3, table.queryCalls)

	table.throttle = 10
	_, err = col.Find(ctx, storagemodels.Filter{}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsDatabaseError(err))
}

func TestSortKey(t *testing.T) {
	s, err := sortKey("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", s)

	n, err := sortKey(int64(1))
	require.NoError(t, err)
	assert.Equal(t, "#1", n)
}
