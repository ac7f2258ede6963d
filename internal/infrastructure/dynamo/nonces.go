package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/passwordless-api/internal/domain"
)

// NonceRepo provides typed DynamoDB operations for the nonces table.
// PK: contact — a PutItem on the same contact replaces the prior nonce, so
// at most one nonce is ever outstanding per contact.
type NonceRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNonceRepo(client *dynamodb.Client, tableName string) *NonceRepo {
	return &NonceRepo{client: client, tableName: tableName}
}

func (r *NonceRepo) Put(ctx context.Context, n *domain.Nonce) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal nonce: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// GetByValue looks up a nonce by its opaque value via GSI.
func (r *NonceRepo) GetByValue(ctx context.Context, value string) (*domain.Nonce, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("nonce_value-index"),
		KeyConditionExpression: aws.String("nonce_value = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("nonce not found: %w", domain.ErrNonceNotFound)
	}
	var n domain.Nonce
	if err := attributevalue.UnmarshalMap(out.Items[0], &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Delete removes any outstanding nonce for a contact. No-op when none exists.
func (r *NonceRepo) Delete(ctx context.Context, contact string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("contact", contact),
	})
	return err
}

// ConsumeByValue deletes the contact's nonce only if it still carries value.
// The condition makes redemption a compare-and-delete: of two concurrent
// consumers exactly one succeeds, the other gets ErrNonceNotFound.
func (r *NonceRepo) ConsumeByValue(ctx context.Context, contact, value string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("contact", contact),
		ConditionExpression: aws.String("nonce_value = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("nonce already consumed or replaced: %w", domain.ErrNonceNotFound)
	}
	return err
}
