// Command seed provisions the DynamoDB tables and writes the default
// treatment catalog. Intended for LocalStack and fresh environments.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/joho/godotenv"

	"github.com/haarwerk/booking-api/cmd/mainconfig"
	appconfig "github.com/haarwerk/booking-api/internal/config"
	"github.com/haarwerk/booking-api/internal/treatments"
	"github.com/haarwerk/booking-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	client := dynamodb.NewFromConfig(awsCfg)

	for _, table := range tableDefinitions(cfg) {
		if err := createTable(ctx, client, table); err != nil {
			logger.Error("create table failed", "table", *table.TableName, "error", err)
			os.Exit(1)
		}
		logger.Info("table ready", "table", *table.TableName)
	}

	if err := treatments.NewRepository(client, cfg.TreatmentsTable).Seed(ctx); err != nil {
		logger.Error("seed treatment catalog failed", "error", err)
		os.Exit(1)
	}
	logger.Info("treatment catalog seeded", "table", cfg.TreatmentsTable)
}

func createTable(ctx context.Context, client *dynamodb.Client, input *dynamodb.CreateTableInput) error {
	_, err := client.CreateTable(ctx, input)
	var exists *types.ResourceInUseException
	if errors.As(err, &exists) {
		return nil
	}
	return err
}

// tableDefinitions declares the four tables. Bookings are keyed by date and
// start minute so a conditional put arbitrates slot races; two secondary
// indexes serve customer history and id lookups.
func tableDefinitions(cfg *appconfig.Config) []*dynamodb.CreateTableInput {
	return []*dynamodb.CreateTableInput{
		{
			TableName:   aws.String(cfg.BookingsTable),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("date"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("startMinutes"), AttributeType: types.ScalarAttributeTypeN},
				{AttributeName: aws.String("customerId"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("date"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("startMinutes"), KeyType: types.KeyTypeRange},
			},
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				{
					IndexName: aws.String("customer-index"),
					KeySchema: []types.KeySchemaElement{
						{AttributeName: aws.String("customerId"), KeyType: types.KeyTypeHash},
						{AttributeName: aws.String("date"), KeyType: types.KeyTypeRange},
					},
					Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
				},
				{
					IndexName: aws.String("id-index"),
					KeySchema: []types.KeySchemaElement{
						{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
					},
					Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
				},
			},
		},
		{
			TableName:   aws.String(cfg.BlackoutsTable),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("date"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("date"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeRange},
			},
		},
		{
			TableName:   aws.String(cfg.TreatmentsTable),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
		},
		{
			TableName:   aws.String(cfg.CustomersTable),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("customerId"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("customerId"), KeyType: types.KeyTypeHash},
			},
		},
	}
}
