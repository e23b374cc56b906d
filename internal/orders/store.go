package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/dropshiphq/orders-api/internal/aws"
)

// OrderIDIndex is the GSI used to look orders up by their business id.
const OrderIDIndex = "order_id-index"

// ErrNotFoundOrUnchanged indicates a status update matched no record, or the
// record already carried the requested status. The two cases are deliberately
// reported as one outcome.
var ErrNotFoundOrUnchanged = errors.New("order not found or status unchanged")

// Store encapsulates operations on the orders table.
// It performs no validation and no retries; failures surface wrapped.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Insert persists the order and re-fetches the stored record so the caller
// returns exactly what the table holds. The store assigns record_id.
func (s *Store) Insert(ctx context.Context, o Order) (*Order, error) {
	if o.RecordID == "" {
		o.RecordID = uuid.NewString()
	}

	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}

	return s.Get(ctx, o.RecordID)
}

// Get fetches an order by record_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, recordID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"record_id": &types.AttributeValueMemberS{Value: recordID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// GetByOrderID returns the first order whose order_id matches, via the GSI.
// order_id is not unique; any further matches are ignored. Returns (nil, nil)
// if nothing matches.
func (s *Store) GetByOrderID(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(OrderIDIndex),
		KeyConditionExpression: awsString("order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: orderID},
		},
		Limit: awsInt32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query order_id index: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Items[0], &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// List returns orders sorted by created_at descending, optionally filtered by
// status, with skip/limit applied after the sort. The scan walks every page;
// result size is bounded by the handler-side limit cap.
func (s *Store) List(ctx context.Context, status string, skip, limit int) ([]Order, error) {
	input := &dyn.ScanInput{TableName: &s.tableName}
	applyStatusFilter(input, status)

	all := make([]Order, 0)
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		var page []Order
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		all = append(all, page...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if skip >= len(all) {
		return []Order{}, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Count returns the number of orders matching the optional status filter,
// ignoring any pagination.
func (s *Store) Count(ctx context.Context, status string) (int, error) {
	input := &dyn.ScanInput{
		TableName: &s.tableName,
		Select:    types.SelectCount,
	}
	applyStatusFilter(input, status)

	total := 0
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("count orders: %w", err)
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return total, nil
}

// SumRevenue sums total_harga across all orders. Returns 0 for an empty table.
func (s *Store) SumRevenue(ctx context.Context) (float64, error) {
	input := &dyn.ScanInput{
		TableName:            &s.tableName,
		ProjectionExpression: awsString("total_harga"),
	}

	var sum float64
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("scan revenue: %w", err)
		}
		var page []struct {
			TotalHarga float64 `dynamodbav:"total_harga"`
		}
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return 0, fmt.Errorf("unmarshal revenue: %w", err)
		}
		for _, it := range page {
			sum += it.TotalHarga
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return sum, nil
}

// UpdateStatus sets the order's status and refreshes updated_at in one
// conditional write. The condition requires the record to exist AND the status
// to actually change; either failure maps to ErrNotFoundOrUnchanged.
func (s *Store) UpdateStatus(ctx context.Context, recordID, newStatus string) error {
	now := s.nowFunc().UTC()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"record_id": &types.AttributeValueMemberS{Value: recordID},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ConditionExpression:      awsString("attribute_exists(record_id) AND #s <> :new"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new": &types.AttributeValueMemberS{Value: newStatus},
			":ua":  &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
		},
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return ErrNotFoundOrUnchanged
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Ping issues a DescribeTable to verify table connectivity. Startup check only.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dyn.DescribeTableInput{TableName: &s.tableName})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", s.tableName, err)
	}
	return nil
}

func applyStatusFilter(input *dyn.ScanInput, status string) {
	if status == "" {
		return
	}
	// "status" is a DynamoDB reserved word, hence the #s alias.
	input.FilterExpression = awsString("#s = :status")
	input.ExpressionAttributeNames = map[string]string{"#s": "status"}
	input.ExpressionAttributeValues = map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: status},
	}
}

func awsString(s string) *string { return &s }
func awsInt32(n int32) *int32    { return &n }
