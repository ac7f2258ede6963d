package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/passwordless-api/internal/domain"
)

// ContactRepo provides typed DynamoDB operations for the user_contacts table.
// PK: contact. Global contact uniqueness is enforced here by a conditional
// put, not by the advisory existence pre-check in the registry.
type ContactRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewContactRepo(client *dynamodb.Client, tableName string) *ContactRepo {
	return &ContactRepo{client: client, tableName: tableName}
}

// Bind associates a contact with a user. Fails with ErrContactAlreadyBound
// when the contact key already exists — the authoritative uniqueness guard.
func (r *ContactRepo) Bind(ctx context.Context, uc *domain.UserContact) error {
	item, err := attributevalue.MarshalMap(uc)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(contact)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("contact %s: %w", uc.Contact, domain.ErrContactAlreadyBound)
	}
	return err
}

func (r *ContactRepo) Get(ctx context.Context, contact string) (*domain.UserContact, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("contact", contact),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("contact %s: %w", contact, domain.ErrContactNotFound)
	}
	var uc domain.UserContact
	if err := attributevalue.UnmarshalMap(out.Item, &uc); err != nil {
		return nil, err
	}
	return &uc, nil
}

// ListByUser returns all contacts bound to a user via the user_id GSI.
func (r *ContactRepo) ListByUser(ctx context.Context, userID string) ([]domain.UserContact, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var contacts []domain.UserContact
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// UnbindWithWitness removes a contact binding in a transaction that also
// asserts witness is still bound to the same user. DynamoDB serializes the
// transactions, so of two concurrent removals that would leave the user
// with no contacts, the second fails on its witness check.
// An unbound or foreign contact fails with ErrContactNotFound; a vanished
// witness fails with ErrLastContactForbidden.
func (r *ContactRepo) UnbindWithWitness(ctx context.Context, userID, contact, witness string) error {
	uid := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: userID},
	}
	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:                 aws.String(r.tableName),
				Key:                       strKey("contact", contact),
				ConditionExpression:       aws.String("user_id = :uid"),
				ExpressionAttributeValues: uid,
			}},
			{ConditionCheck: &types.ConditionCheck{
				TableName:                 aws.String(r.tableName),
				Key:                       strKey("contact", witness),
				ConditionExpression:       aws.String("user_id = :uid"),
				ExpressionAttributeValues: uid,
			}},
		},
	})
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for i, reason := range tce.CancellationReasons {
			if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
				continue
			}
			if i == 0 {
				return fmt.Errorf("contact %s: %w", contact, domain.ErrContactNotFound)
			}
			return fmt.Errorf("user %s: %w", userID, domain.ErrLastContactForbidden)
		}
	}
	return err
}
