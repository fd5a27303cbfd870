package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/haarwerk/booking-api/internal/schedule"
	"github.com/haarwerk/booking-api/pkg/logging"
)

// Secondary indexes on the bookings table.
const (
	customerIndex = "customer-index" // customerId (hash), date (range)
	idIndex       = "id-index"       // id (hash)
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Repository persists bookings in DynamoDB.
type Repository struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

// NewRepository builds a bookings repository.
func NewRepository(client dynamoAPI, tableName string, logger *logging.Logger) *Repository {
	if client == nil {
		panic("bookings: dynamodb client required")
	}
	if tableName == "" {
		panic("bookings: table name required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Repository{client: client, tableName: tableName, logger: logger}
}

// Create persists a booking. The conditional put makes the store the final
// arbiter when two customers race for the same slot: the second write on
// the same date/start key fails with ErrSlotTaken. A cancelled item at the
// key does not hold the slot and is overwritten.
func (r *Repository) Create(ctx context.Context, b *Booking) error {
	if b == nil {
		return errors.New("bookings: booking required")
	}
	b.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("bookings: marshal: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#d) OR #s = :cancelled"),
		ExpressionAttributeNames: map[string]string{
			"#d": "date",
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cancelled": &types.AttributeValueMemberS{Value: string(StatusCancelled)},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrSlotTaken
		}
		return fmt.Errorf("bookings: persist: %w", err)
	}
	return nil
}

// ListForDate returns the non-cancelled bookings of a day, ordered by start
// time (the table's sort key).
func (r *Repository) ListForDate(ctx context.Context, date string) ([]Booking, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#d = :date"),
		FilterExpression:       aws.String("#s <> :cancelled"),
		ExpressionAttributeNames: map[string]string{
			"#d": "date",
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":date":      &types.AttributeValueMemberS{Value: date},
			":cancelled": &types.AttributeValueMemberS{Value: string(StatusCancelled)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bookings: query date %s: %w", date, err)
	}
	return unmarshalBookings(out.Items)
}

// BookingsForDate implements schedule.BookingSource.
func (r *Repository) BookingsForDate(ctx context.Context, date string) ([]schedule.Interval, error) {
	list, err := r.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	intervals := make([]schedule.Interval, 0, len(list))
	for _, b := range list {
		intervals = append(intervals, b.interval())
	}
	return intervals, nil
}

// GetByID loads a booking through the id index.
func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(idIndex),
		KeyConditionExpression: aws.String("id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: id},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("bookings: query id %s: %w", id, err)
	}
	if len(out.Items) == 0 {
		return nil, ErrNotFound
	}
	var b Booking
	if err := attributevalue.UnmarshalMap(out.Items[0], &b); err != nil {
		return nil, fmt.Errorf("bookings: unmarshal %s: %w", id, err)
	}
	return &b, nil
}

// Cancel marks a booking cancelled. Only the owning customer may cancel.
func (r *Repository) Cancel(ctx context.Context, customerID, bookingID string) (*Booking, error) {
	b, err := r.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if b.Status == StatusCancelled {
		return b, nil
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"date":         &types.AttributeValueMemberS{Value: b.Date},
			"startMinutes": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", b.StartMinutes)},
		},
		UpdateExpression: aws.String("SET #s = :cancelled"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cancelled": &types.AttributeValueMemberS{Value: string(StatusCancelled)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bookings: cancel %s: %w", bookingID, err)
	}
	b.Status = StatusCancelled
	return b, nil
}

// ListForCustomer returns the customer's non-cancelled bookings from the
// given date onwards, ordered by date and start time. The customer index
// sorts by date only, so same-day bookings are ordered here.
func (r *Repository) ListForCustomer(ctx context.Context, customerID, fromDate string) ([]Booking, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(customerIndex),
		KeyConditionExpression: aws.String("customerId = :c AND #d >= :from"),
		FilterExpression:       aws.String("#s <> :cancelled"),
		ExpressionAttributeNames: map[string]string{
			"#d": "date",
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c":         &types.AttributeValueMemberS{Value: customerID},
			":from":      &types.AttributeValueMemberS{Value: fromDate},
			":cancelled": &types.AttributeValueMemberS{Value: string(StatusCancelled)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bookings: query customer %s: %w", customerID, err)
	}
	list, err := unmarshalBookings(out.Items)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		return list[i].StartMinutes < list[j].StartMinutes
	})
	return list, nil
}

// CountQualifying implements loyalty.BookingCounter: confirmed or pending
// bookings since the cutoff, excluding cancelled and discounted ones so a
// discounted booking never advances the cycle.
func (r *Repository) CountQualifying(ctx context.Context, customerID string, since time.Time) (int, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(customerIndex),
		KeyConditionExpression: aws.String("customerId = :c AND #d >= :from"),
		FilterExpression:       aws.String("#s <> :cancelled AND discount = :none"),
		ExpressionAttributeNames: map[string]string{
			"#d": "date",
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c":         &types.AttributeValueMemberS{Value: customerID},
			":from":      &types.AttributeValueMemberS{Value: schedule.FormatDate(since)},
			":cancelled": &types.AttributeValueMemberS{Value: string(StatusCancelled)},
			":none":      &types.AttributeValueMemberS{Value: DiscountNone},
		},
		Select: types.SelectCount,
	})
	if err != nil {
		return 0, fmt.Errorf("bookings: count for %s: %w", customerID, err)
	}
	return int(out.Count), nil
}

func unmarshalBookings(items []map[string]types.AttributeValue) ([]Booking, error) {
	list := make([]Booking, 0, len(items))
	for _, item := range items {
		var b Booking
		if err := attributevalue.UnmarshalMap(item, &b); err != nil {
			return nil, fmt.Errorf("bookings: unmarshal: %w", err)
		}
		list = append(list, b)
	}
	return list, nil
}
