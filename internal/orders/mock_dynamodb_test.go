package orders

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory mock that supports the subset of DynamoDB
// the orders Store uses: PutItem, GetItem, Query (order_id GSI), Scan (with
// the status filter and Select COUNT), UpdateItem (with the conditional
// status expression) and DescribeTable.
// NOTE: intentionally minimal and not production-grade.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue // record_id -> item

	scanErr   error // when set, Scan fails
	updateErr error // when set, UpdateItem fails
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func strAttr(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk := strAttr(params.Item, "record_id")
	if pk == "" {
		return nil, errors.New("missing record_id in put item")
	}
	m.items[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk := strAttr(params.Key, "record_id")
	item, ok := m.items[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if params.IndexName == nil || *params.IndexName != OrderIDIndex {
		return nil, errors.New("mock only supports the order_id index")
	}
	want, ok := params.ExpressionAttributeValues[":oid"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :oid value")
	}
	out := &dyn.QueryOutput{}
	for _, item := range m.items {
		if strAttr(item, "order_id") == want.Value {
			out.Items = append(out.Items, item)
			if params.Limit != nil && int32(len(out.Items)) >= *params.Limit {
				break
			}
		}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	var wantStatus string
	if params.FilterExpression != nil {
		if *params.FilterExpression != "#s = :status" {
			return nil, errors.New("unsupported filter expression")
		}
		v, ok := params.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS)
		if !ok {
			return nil, errors.New("missing :status value")
		}
		wantStatus = v.Value
	}

	out := &dyn.ScanOutput{}
	for _, item := range m.items {
		if wantStatus != "" && strAttr(item, "status") != wantStatus {
			continue
		}
		out.Count++
		if params.Select != types.SelectCount {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	pk := strAttr(params.Key, "record_id")
	item, exists := m.items[pk]

	newStatus, ok := params.ExpressionAttributeValues[":new"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :new value")
	}

	// the store's condition: attribute_exists(record_id) AND #s <> :new
	if params.ConditionExpression != nil {
		if !exists || strAttr(item, "status") == newStatus.Value {
			return nil, &types.ConditionalCheckFailedException{}
		}
	} else if !exists {
		return nil, errors.New("item not found")
	}

	item["status"] = newStatus
	if ua, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = ua
	}
	m.items[pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DescribeTable(ctx context.Context, params *dyn.DescribeTableInput, optFns ...func(*dyn.Options)) (*dyn.DescribeTableOutput, error) {
	return &dyn.DescribeTableOutput{
		Table: &types.TableDescription{TableName: params.TableName},
	}, nil
}

// seedOrder inserts an order directly into the mock, bypassing the store.
func (m *mockDynamo) seedOrder(recordID, orderID, status string, totalHarga float64, createdAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[recordID] = map[string]types.AttributeValue{
		"record_id":         &types.AttributeValueMemberS{Value: recordID},
		"order_id":          &types.AttributeValueMemberS{Value: orderID},
		"nama":              &types.AttributeValueMemberS{Value: "Budi"},
		"alamat":            &types.AttributeValueMemberS{Value: "Jl. Merdeka 1"},
		"telepon":           &types.AttributeValueMemberS{Value: "0812000"},
		"produk":            &types.AttributeValueMemberS{Value: "Kaos Polos"},
		"product_id":        &types.AttributeValueMemberS{Value: "prod-1"},
		"jumlah":            &types.AttributeValueMemberN{Value: "1"},
		"total_harga":       &types.AttributeValueMemberN{Value: floatStr(totalHarga)},
		"metode_pembayaran": &types.AttributeValueMemberS{Value: "transfer"},
		"status":            &types.AttributeValueMemberS{Value: status},
		"created_at":        &types.AttributeValueMemberS{Value: createdAt.UTC().Format(time.RFC3339Nano)},
		"updated_at":        &types.AttributeValueMemberS{Value: createdAt.UTC().Format(time.RFC3339Nano)},
	}
}

func floatStr(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
