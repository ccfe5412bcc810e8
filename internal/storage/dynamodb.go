package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"github.com/ceylonworkforce/jobboard/internal/config"
)

// DynamoDBStorage implements Storage using one DynamoDB table per collection
type DynamoDBStorage struct {
	client      *dynamodb.DynamoDB
	tablePrefix string
}

// NewDynamoDBStorage creates a new DynamoDB storage instance
func NewDynamoDBStorage(cfg config.StorageConfig, collections []string) (*DynamoDBStorage, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}

	// For local testing with DynamoDB Local
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	storage := &DynamoDBStorage{
		client:      dynamodb.New(sess),
		tablePrefix: cfg.TablePrefix,
	}

	for _, name := range collections {
		if err := storage.ensureTable(storage.tableName(name)); err != nil {
			return nil, fmt.Errorf("failed to ensure table %s exists: %w", name, err)
		}
	}

	return storage, nil
}

func (d *DynamoDBStorage) tableName(collection string) string {
	return d.tablePrefix + collection
}

// ensureTable creates the DynamoDB table if it doesn't exist
func (d *DynamoDBStorage) ensureTable(table string) error {
	_, err := d.client.DescribeTable(&dynamodb.DescribeTableInput{
		TableName: aws.String(table),
	})
	if err == nil {
		return nil
	}

	input := &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		KeySchema: []*dynamodb.KeySchemaElement{
			{
				AttributeName: aws.String("id"),
				KeyType:       aws.String("HASH"),
			},
		},
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{
				AttributeName: aws.String("id"),
				AttributeType: aws.String("S"),
			},
		},
		BillingMode: aws.String("PAY_PER_REQUEST"),
	}

	if _, err := d.client.CreateTable(input); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return d.client.WaitUntilTableExists(&dynamodb.DescribeTableInput{
		TableName: aws.String(table),
	})
}

func (d *DynamoDBStorage) Collection(name string) Collection {
	return &dynamoCollection{client: d.client, table: d.tableName(name)}
}

func (d *DynamoDBStorage) Ping(ctx context.Context) error {
	_, err := d.client.ListTablesWithContext(ctx, &dynamodb.ListTablesInput{Limit: aws.Int64(1)})
	return err
}

// Close closes the DynamoDB connection
func (d *DynamoDBStorage) Close() error {
	// DynamoDB client doesn't need explicit closing
	return nil
}

type dynamoCollection struct {
	client *dynamodb.DynamoDB
	table  string
}

func idKey(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"id": {S: aws.String(id)},
	}
}

func (c *dynamoCollection) Put(ctx context.Context, id string, doc any) error {
	item, err := dynamodbattribute.MarshalMap(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", id, err)
	}
	item["id"] = &dynamodb.AttributeValue{S: aws.String(id)}

	_, err = c.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", id, err)
	}
	return nil
}

func (c *dynamoCollection) Get(ctx context.Context, id string, dst any) error {
	result, err := c.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.table),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to get document %s: %w", id, err)
	}
	if result.Item == nil {
		return ErrNotFound
	}
	if err := dynamodbattribute.UnmarshalMap(result.Item, dst); err != nil {
		return fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}
	return nil
}

func (c *dynamoCollection) Delete(ctx context.Context, id string) error {
	result, err := c.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(c.table),
		Key:          idKey(id),
		ReturnValues: aws.String(dynamodb.ReturnValueAllOld),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	if len(result.Attributes) == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *dynamoCollection) List(ctx context.Context, dst any) error {
	var items []map[string]*dynamodb.AttributeValue
	err := c.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(c.table),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		items = append(items, page.Items...)
		return true
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", c.table, err)
	}
	if items == nil {
		items = []map[string]*dynamodb.AttributeValue{}
	}
	if err := dynamodbattribute.UnmarshalListOfMaps(items, dst); err != nil {
		return fmt.Errorf("failed to unmarshal documents: %w", err)
	}
	return nil
}
