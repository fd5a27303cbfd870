package treatments

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrNotFound indicates an unknown treatment id.
var ErrNotFound = errors.New("treatments: not found")

type dynamoAPI interface {
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Repository reads the treatment catalog from DynamoDB.
type Repository struct {
	client    dynamoAPI
	tableName string
}

// NewRepository builds a catalog repository.
func NewRepository(client dynamoAPI, tableName string) *Repository {
	if client == nil {
		panic("treatments: dynamodb client required")
	}
	if tableName == "" {
		panic("treatments: table name required")
	}
	return &Repository{client: client, tableName: tableName}
}

// List returns the full catalog ordered by name.
func (r *Repository) List(ctx context.Context) ([]Treatment, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("treatments: scan catalog: %w", err)
	}
	catalog := make([]Treatment, 0, len(out.Items))
	for _, item := range out.Items {
		var tr Treatment
		if err := attributevalue.UnmarshalMap(item, &tr); err != nil {
			return nil, fmt.Errorf("treatments: unmarshal: %w", err)
		}
		catalog = append(catalog, tr)
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].Name < catalog[j].Name })
	return catalog, nil
}

// Get returns one treatment by id.
func (r *Repository) Get(ctx context.Context, id string) (*Treatment, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("treatments: get %s: %w", id, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	var tr Treatment
	if err := attributevalue.UnmarshalMap(out.Item, &tr); err != nil {
		return nil, fmt.Errorf("treatments: unmarshal %s: %w", id, err)
	}
	return &tr, nil
}

// GetMany resolves a list of ids, failing on the first unknown one.
func (r *Repository) GetMany(ctx context.Context, ids []string) ([]Treatment, error) {
	if len(ids) == 0 {
		return nil, errors.New("treatments: at least one treatment required")
	}
	out := make([]Treatment, 0, len(ids))
	for _, id := range ids {
		tr, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *tr)
	}
	return out, nil
}

// Seed writes the default catalog. Used by fresh environments and tests.
func (r *Repository) Seed(ctx context.Context) error {
	for _, tr := range DefaultCatalog() {
		item, err := attributevalue.MarshalMap(tr)
		if err != nil {
			return fmt.Errorf("treatments: marshal %s: %w", tr.ID, err)
		}
		if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      item,
		}); err != nil {
			return fmt.Errorf("treatments: seed %s: %w", tr.ID, err)
		}
	}
	return nil
}
