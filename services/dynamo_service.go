package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dinnermatch_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the part of *dynamodb.Client the index needs
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoService wraps a DynamoDB client with marshalling helpers
type DynamoService struct {
	Client DynamoAPI
}

// LoadAWSConfig loads the default AWS config for the given region
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// GetItem retrieves an item by key and unmarshals it into out.
// It reports false when no item exists.
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue, out interface{}) (bool, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key:       key,
	})
	if err != nil {
		return false, fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}
	if output.Item == nil {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(output.Item, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal item from table '%s': %w", tableName, err)
	}
	return true, nil
}

// PutItem marshals item and writes it, replacing any item with the same key
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      marshaledItem,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// PutItemIfAbsent writes item only when no item holds the same keyAttr.
// It reports false when an item already existed.
func (ds *DynamoService) PutItemIfAbsent(ctx context.Context, tableName, keyAttr string, item interface{}) (bool, error) {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return false, fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(tableName),
		Item:                     marshaledItem,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": keyAttr},
	})
	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return true, nil
}

// DynamoDateIndex keeps date → record id entries in a DynamoDB table keyed by "indexKey"
type DynamoDateIndex struct {
	Dynamo    *DynamoService
	TableName string
}

// NewDynamoDateIndex creates an index backed by the given table
func NewDynamoDateIndex(client DynamoAPI, tableName string) *DynamoDateIndex {
	return &DynamoDateIndex{Dynamo: &DynamoService{Client: client}, TableName: tableName}
}

func (di *DynamoDateIndex) Lookup(ctx context.Context, kind, date string) (string, error) {
	key := map[string]types.AttributeValue{
		"indexKey": &types.AttributeValueMemberS{Value: indexKey(kind, date)},
	}
	var entry models.DateIndexEntry
	found, err := di.Dynamo.GetItem(ctx, di.TableName, key, &entry)
	if err != nil || !found {
		return "", err
	}
	return entry.RecordID, nil
}

func newDateIndexEntry(kind, date, recordID string) models.DateIndexEntry {
	return models.DateIndexEntry{
		IndexKey:  indexKey(kind, date),
		RecordID:  recordID,
		Kind:      kind,
		Date:      date,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (di *DynamoDateIndex) Remember(ctx context.Context, kind, date, recordID string) error {
	entry := newDateIndexEntry(kind, date, recordID)
	if err := di.Dynamo.PutItem(ctx, di.TableName, entry); err != nil {
		return err
	}
	slog.Debug("date index entry stored", "backend", "dynamodb", "key", entry.IndexKey, "record", recordID)
	return nil
}

func (di *DynamoDateIndex) RememberIfAbsent(ctx context.Context, kind, date, recordID string) error {
	entry := newDateIndexEntry(kind, date, recordID)
	stored, err := di.Dynamo.PutItemIfAbsent(ctx, di.TableName, "indexKey", entry)
	if err != nil {
		return err
	}
	if !stored {
		slog.Debug("date index entry already present", "backend", "dynamodb", "key", entry.IndexKey, "record", recordID)
	}
	return nil
}
