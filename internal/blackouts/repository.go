package blackouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/haarwerk/booking-api/internal/schedule"
	"github.com/haarwerk/booking-api/pkg/logging"
)

// ErrNotFound indicates the requested blackout window does not exist.
var ErrNotFound = errors.New("blackouts: window not found")

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Repository persists blackout windows in DynamoDB. The table is keyed by
// date (partition) and id (sort), so per-date reads are a single Query.
type Repository struct {
	client    dynamoAPI
	tableName string
	loc       *time.Location
	logger    *logging.Logger
}

// NewRepository builds a repository backed by the provided DynamoDB client.
func NewRepository(client dynamoAPI, tableName string, loc *time.Location, logger *logging.Logger) *Repository {
	if client == nil {
		panic("blackouts: dynamodb client required")
	}
	if tableName == "" {
		panic("blackouts: table name required")
	}
	if loc == nil {
		panic("blackouts: location required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Repository{client: client, tableName: tableName, loc: loc, logger: logger}
}

// Create validates and persists a new window, assigning its id.
func (r *Repository) Create(ctx context.Context, w *Window) error {
	if w == nil {
		return errors.New("blackouts: window required")
	}
	if err := w.Validate(r.loc); err != nil {
		return err
	}
	if w.FullDay {
		w.StartMinutes, w.EndMinutes = 0, 0
	}
	w.ID = uuid.NewString()
	w.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	item, err := attributevalue.MarshalMap(w)
	if err != nil {
		return fmt.Errorf("blackouts: marshal window: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("blackouts: persist window: %w", err)
	}
	return nil
}

// Delete removes a window by its full key.
func (r *Repository) Delete(ctx context.Context, date, id string) error {
	if date == "" || id == "" {
		return errors.New("blackouts: date and id required")
	}
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"date": &types.AttributeValueMemberS{Value: date},
			"id":   &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrNotFound
		}
		return fmt.Errorf("blackouts: delete window: %w", err)
	}
	return nil
}

// ListForDate returns every window on the given day.
func (r *Repository) ListForDate(ctx context.Context, date string) ([]Window, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#d = :date"),
		ExpressionAttributeNames: map[string]string{
			"#d": "date",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":date": &types.AttributeValueMemberS{Value: date},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("blackouts: query date %s: %w", date, err)
	}
	return unmarshalWindows(out.Items)
}

// ListForRange returns every window with from <= date <= to. Used by the
// month-view prefetch; blackout data is small, so a filtered scan suffices.
func (r *Repository) ListForRange(ctx context.Context, from, to string) ([]Window, error) {
	var windows []Window
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: aws.String("#d BETWEEN :from AND :to"),
			ExpressionAttributeNames: map[string]string{
				"#d": "date",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":from": &types.AttributeValueMemberS{Value: from},
				":to":   &types.AttributeValueMemberS{Value: to},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("blackouts: scan range %s..%s: %w", from, to, err)
		}
		page, err := unmarshalWindows(out.Items)
		if err != nil {
			return nil, err
		}
		windows = append(windows, page...)
		if out.LastEvaluatedKey == nil {
			return windows, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func unmarshalWindows(items []map[string]types.AttributeValue) ([]Window, error) {
	windows := make([]Window, 0, len(items))
	for _, item := range items {
		var w Window
		if err := attributevalue.UnmarshalMap(item, &w); err != nil {
			return nil, fmt.Errorf("blackouts: unmarshal window: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// BlackoutsForDate implements schedule.BlackoutSource.
func (r *Repository) BlackoutsForDate(ctx context.Context, date string) ([]schedule.Blackout, error) {
	windows, err := r.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return toEngineWindows(windows), nil
}

// BlackoutsForRange implements schedule.BlackoutSource.
func (r *Repository) BlackoutsForRange(ctx context.Context, from, to string) ([]schedule.Blackout, error) {
	windows, err := r.ListForRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toEngineWindows(windows), nil
}

func toEngineWindows(windows []Window) []schedule.Blackout {
	out := make([]schedule.Blackout, 0, len(windows))
	for _, w := range windows {
		out = append(out, w.toEngine())
	}
	return out
}
