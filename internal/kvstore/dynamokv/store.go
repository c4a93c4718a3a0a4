// Package dynamokv implements kvstore.Store on a DynamoDB table whose partition key is
// the string attribute "key". Values are kept as a JSON string in the "value" attribute.
package dynamokv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/valentine-rsvp/internal/aws"
	"github.com/imrishuroy/valentine-rsvp/internal/kvstore"
)

const backendName = "dynamodb"

// item is the shape persisted in the table.
type item struct {
	Key   string `dynamodbav:"key"` // PK
	Value string `dynamodbav:"value"`
}

// Store encapsulates key-value operations on a single DynamoDB table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// New returns a Store bound to tableName.
func New(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

func keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"key": &types.AttributeValueMemberS{Value: key},
	}
}

// Get reads with ConsistentRead so a completed Set is always visible.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            keyAttr(key),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, kvstore.Unavailable(backendName, "get", key, err)
	}
	if len(out.Item) == 0 {
		return nil, kvstore.ErrNotFound
	}
	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, kvstore.Unavailable(backendName, "get", key, fmt.Errorf("unmarshal item: %w", err))
	}
	return json.RawMessage(it.Value), nil
}

func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := kvstore.CheckValue(value); err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(item{Key: key, Value: string(value)})
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      av,
	})
	if err != nil {
		return kvstore.Unavailable(backendName, "set", key, err)
	}
	return nil
}

// GetByPrefix scans the table with a begins_with filter, following LastEvaluatedKey
// until the table is exhausted.
func (s *Store) GetByPrefix(ctx context.Context, prefix string) ([]kvstore.Entry, error) {
	input := &dyn.ScanInput{
		TableName:      &s.tableName,
		ConsistentRead: awsBool(true),
	}
	if prefix != "" {
		input.FilterExpression = awsString("begins_with(#k, :p)")
		// "key" is a DynamoDB reserved word
		input.ExpressionAttributeNames = map[string]string{"#k": "key"}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: prefix},
		}
	}

	out := []kvstore.Entry{}
	pages := dyn.NewScanPaginator(s.client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, kvstore.Unavailable(backendName, "scan", prefix, err)
		}
		var items []item
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, kvstore.Unavailable(backendName, "scan", prefix, fmt.Errorf("unmarshal items: %w", err))
		}
		for _, it := range items {
			out = append(out, kvstore.Entry{Key: it.Key, Value: json.RawMessage(it.Value)})
		}
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key:       keyAttr(key),
	})
	if err != nil {
		return kvstore.Unavailable(backendName, "delete", key, err)
	}
	return nil
}

// Close is a no-op; the SDK client owns no long-lived connections that need releasing.
func (s *Store) Close() error { return nil }

func awsString(s string) *string { return &s }

func awsBool(b bool) *bool { return &b }
