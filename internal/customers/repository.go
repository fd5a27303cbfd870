package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrNotFound indicates no profile exists for the customer yet.
var ErrNotFound = errors.New("customers: profile not found")

type dynamoAPI interface {
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Repository persists customer profiles in DynamoDB, keyed by customer id.
type Repository struct {
	client    dynamoAPI
	tableName string
	loc       *time.Location
	now       func() time.Time
}

// NewRepository builds a profile repository.
func NewRepository(client dynamoAPI, tableName string, loc *time.Location) *Repository {
	if client == nil {
		panic("customers: dynamodb client required")
	}
	if tableName == "" {
		panic("customers: table name required")
	}
	if loc == nil {
		panic("customers: location required")
	}
	return &Repository{client: client, tableName: tableName, loc: loc, now: time.Now}
}

// Get loads a profile by customer id.
func (r *Repository) Get(ctx context.Context, customerID string) (*Profile, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"customerId": &types.AttributeValueMemberS{Value: customerID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("customers: get %s: %w", customerID, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	var p Profile
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("customers: unmarshal %s: %w", customerID, err)
	}
	return &p, nil
}

// Upsert creates or updates a profile. The birth date is write-once: a
// second write with a differing birth date is rejected.
func (r *Repository) Upsert(ctx context.Context, customerID, email, name, birthDate string) (*Profile, error) {
	now := r.now()

	existing, err := r.Get(ctx, customerID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p := &Profile{
		CustomerID: customerID,
		Email:      email,
		Name:       name,
		UpdatedAt:  now.UTC().Format(time.RFC3339),
	}
	if existing != nil {
		p.CreatedAt = existing.CreatedAt
		p.BirthDate = existing.BirthDate
		if p.Name == "" {
			p.Name = existing.Name
		}
		if p.Email == "" {
			p.Email = existing.Email
		}
	} else {
		p.CreatedAt = p.UpdatedAt
	}

	if birthDate != "" {
		if p.BirthDate != "" && p.BirthDate != birthDate {
			return nil, ErrBirthDateSet
		}
		if p.BirthDate == "" {
			if err := ValidateBirthDate(birthDate, r.loc, now); err != nil {
				return nil, err
			}
			p.BirthDate = birthDate
		}
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("customers: marshal %s: %w", customerID, err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}); err != nil {
		return nil, fmt.Errorf("customers: persist %s: %w", customerID, err)
	}
	return p, nil
}
