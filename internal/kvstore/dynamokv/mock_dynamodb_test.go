package dynamokv

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory table keyed by the "key" attribute.
// It understands the begins_with filter used by Store and pages scans by pageSize.
// NOTE: This is intentionally minimal and not production-grade.
type mockDynamo struct {
	mu        sync.Mutex
	table     map[string]map[string]types.AttributeValue
	pageSize  int
	fail      error
	scanCalls int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		table: map[string]map[string]types.AttributeValue{},
	}
}

func keyOf(m map[string]types.AttributeValue) (string, error) {
	v, ok := m["key"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing key attribute")
	}
	return v.Value, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	k, err := keyOf(params.Item)
	if err != nil {
		return nil, err
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	k, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	k, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.table, k)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanCalls++
	if m.fail != nil {
		return nil, m.fail
	}

	prefix := ""
	if params.FilterExpression != nil {
		if *params.FilterExpression != "begins_with(#k, :p)" || params.ExpressionAttributeNames["#k"] != "key" {
			return nil, errors.New("unsupported filter expression")
		}
		prefix = params.ExpressionAttributeValues[":p"].(*types.AttributeValueMemberS).Value
	}

	keys := make([]string, 0, len(m.table))
	for k := range m.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := ""
	if params.ExclusiveStartKey != nil {
		start, _ = keyOf(params.ExclusiveStartKey)
	}

	out := &dyn.ScanOutput{}
	examined := 0
	for _, k := range keys {
		if start != "" && k <= start {
			continue
		}
		if m.pageSize > 0 && examined == m.pageSize {
			out.LastEvaluatedKey = map[string]types.AttributeValue{
				"key": &types.AttributeValueMemberS{Value: keys[indexOf(keys, k)-1]},
			}
			break
		}
		examined++
		if strings.HasPrefix(k, prefix) {
			out.Items = append(out.Items, m.table[k])
		}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

func indexOf(keys []string, k string) int {
	for i, v := range keys {
		if v == k {
			return i
		}
	}
	return -1
}
