/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/goccy/go-json"

	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// Key attribute names of a stored document item.
const (
	attrPK = "PK"
	attrSK = "SK"
)

// Condition expressions guarding writes.
const (
	condNotExists = "attribute_not_exists(SK)"
	condRevision  = "Rev = :rev"
)

// record is one stored document item.
type record struct {
	PK  string         `dynamodbav:"PK"`
	SK  string         `dynamodbav:"SK"`
	Rev int64          `dynamodbav:"Rev"`
	Seq int64          `dynamodbav:"Seq"`
	Doc map[string]any `dynamodbav:"Doc"`
}

// sortKey renders an _id as the item sort key. String ids are used as is;
// other JSON values are encoded so that 1 and "1" stay distinct.
func sortKey(id any) (string, error) {
	if s, ok := id.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("failed to encode _id: %w", err)
	}
	return "#" + string(b), nil
}

func newRecord(partition string, doc storagemodels.Document, rev, seq int64) (record, error) {
	sk, err := sortKey(doc[storagemodels.IDField])
	if err != nil {
		return record{}, err
	}
	if seq == 0 {
		seq = time.Now().UnixNano()
	}
	return record{PK: partition, SK: sk, Rev: rev, Seq: seq, Doc: map[string]any(doc)}, nil
}

func (r record) item() (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return av, nil
}

func (r record) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: r.PK},
		attrSK: &types.AttributeValueMemberS{Value: r.SK},
	}
}

func revisionValue(rev int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		":rev": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", rev)},
	}
}

// unmarshalRecord decodes an item, turning DynamoDB numbers into int64 or float64.
func unmarshalRecord(item map[string]types.AttributeValue) (record, error) {
	var r record
	err := attributevalue.UnmarshalMapWithOptions(item, &r, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return record{}, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	if r.Doc == nil {
		r.Doc = map[string]any{}
	}
	r.Doc = numbers(r.Doc).(map[string]any)
	return r, nil
}

func numbers(v any) any {
	switch t := v.(type) {
	case attributevalue.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, val := range t {
			t[k] = numbers(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = numbers(val)
		}
		return t
	}
	return v
}
