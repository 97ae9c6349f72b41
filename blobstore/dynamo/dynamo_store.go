// Package dynamo implements blobstore.Store on a DynamoDB table. It suits
// small, frequently replaced snapshots where single-item atomicity matters
// more than object-store throughput.
//
// Table schema: one string partition key ("name"); blob bytes live in the
// binary attribute "data".
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name datatable-snapshots \
//	  --attribute-definitions AttributeName=name,AttributeType=S \
//	  --key-schema AttributeName=name,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
package dynamo

import (
	"context"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/datatable/blobstore"
)

const (
	attrName = "name"
	attrData = "data"
)

// Client is the interface for the DynamoDB operations the store needs.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store implements blobstore.Store on one DynamoDB table.
type Store struct {
	client    Client
	tableName string
}

// NewStore creates a DynamoDB-backed blob store.
func NewStore(client Client, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

// Put writes a blob atomically.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			attrName: &types.AttributeValueMemberS{Value: name},
			attrData: &types.AttributeValueMemberB{Value: data},
		},
	})
	return err
}

// Get reads a whole blob.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			attrName: &types.AttributeValueMemberS{Value: name},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, blobstore.ErrNotFound
	}
	data, ok := out.Item[attrData].(*types.AttributeValueMemberB)
	if !ok {
		return nil, blobstore.ErrNotFound
	}
	return data.Value, nil
}

// Delete removes a blob.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			attrName: &types.AttributeValueMemberS{Value: name},
		},
	})
	return err
}

// List returns the names under prefix, sorted. DynamoDB has no ordered
// prefix scan on a hash key, so this is a filtered table scan; acceptable
// for the small snapshot tables this store targets.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(s.tableName),
			ProjectionExpression: aws.String("#n"),
			ExpressionAttributeNames: map[string]string{
				"#n": attrName,
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			if n, ok := item[attrName].(*types.AttributeValueMemberS); ok {
				if strings.HasPrefix(n.Value, prefix) {
					names = append(names, n.Value)
				}
			}
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	sort.Strings(names)
	return names, nil
}
