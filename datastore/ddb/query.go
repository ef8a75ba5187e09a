/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// load reads every document of the partition, page by page, in insertion order.
func (c *Client) load(ctx context.Context, partition string) ([]record, error) {
	input := c.partitionQuery(partition)
	input.Limit = aws.Int32(c.paging.PageSize)

	var records []record
	for {
		out, err := c.queryWithRetry(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			r, err := unmarshalRecord(item)
			if err != nil {
				return nil, err
			}
			records = append(records, r)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Seq < records[j].Seq
	})
	return records, nil
}

// count sums the item count of every page of the partition without reading documents.
func (c *Client) count(ctx context.Context, partition string) (int64, error) {
	input := c.partitionQuery(partition)
	input.Select = types.SelectCount

	var total int64
	for {
		out, err := c.queryWithRetry(ctx, input)
		if err != nil {
			return 0, err
		}
		total += int64(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (c *Client) partitionQuery(partition string) *sdk.QueryInput {
	keyCond := "PK = :pkVal"
	return &sdk.QueryInput{
		TableName:              &c.tableName,
		KeyConditionExpression: &keyCond,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pkVal": &types.AttributeValueMemberS{Value: partition},
		},
	}
}

// queryWithRetry executes a query, retrying throttling and server errors with linear backoff
func (c *Client) queryWithRetry(ctx context.Context, input *sdk.QueryInput) (*sdk.QueryOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= c.paging.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := c.api.Query(ctx, input)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return nil, err
		}

		// Don't sleep after last attempt
		if attempt < c.paging.MaxRetries {
			backoff := time.Duration(attempt+1) * c.paging.RetryBackoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", c.paging.MaxRetries, lastErr)
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &internal) {
		return true
	}

	var retryable interface{ IsRetryable() bool }
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}
