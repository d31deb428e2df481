package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"axleague/internal/domain"
)

// memberItem is a TeamMembers row, keyed (teamId, USER#<userId>).
type memberItem struct {
	domain.Membership
	SK string `dynamodbav:"sk"`
}

type membershipRepository struct {
	db     DynamoAPI
	tables Tables
}

// NewMembershipRepository returns a MembershipRepository backed by DynamoDB.
func NewMembershipRepository(db DynamoAPI, tables Tables) domain.MembershipRepository {
	return &membershipRepository{db: db, tables: tables}
}

func (r *membershipRepository) Get(ctx context.Context, teamID, userID string) (*domain.Membership, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tables.TeamMembers),
		Key: map[string]types.AttributeValue{
			"teamId": stringAttr(teamID),
			"sk":     stringAttr(memberSKPrefix + userID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrNotFound
	}
	var item memberItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal membership: %w", err)
	}
	return &item.Membership, nil
}

func (r *membershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	av, err := attributevalue.MarshalMap(memberItem{Membership: *m, SK: memberSKPrefix + m.UserID})
	if err != nil {
		return fmt.Errorf("marshal membership: %w", err)
	}
	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.TeamMembers),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(sk)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

func (r *membershipRepository) ListByTeam(ctx context.Context, teamID string) ([]*domain.Membership, error) {
	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.TeamMembers),
		KeyConditionExpression: aws.String("teamId = :t AND begins_with(sk, :p)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": stringAttr(teamID),
			":p": stringAttr(memberSKPrefix),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query team members: %w", err)
	}
	return unmarshalMemberships(out.Items)
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.TeamMembers),
		IndexName:              aws.String(r.tables.UserTeamsIndex),
		KeyConditionExpression: aws.String("#u = :uid"),
		ExpressionAttributeNames: map[string]string{
			"#u": "userId",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": stringAttr(userID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query user memberships: %w", err)
	}
	return unmarshalMemberships(out.Items)
}

func unmarshalMemberships(avs []map[string]types.AttributeValue) ([]*domain.Membership, error) {
	var items []memberItem
	if err := attributevalue.UnmarshalListOfMaps(avs, &items); err != nil {
		return nil, fmt.Errorf("unmarshal memberships: %w", err)
	}
	members := make([]*domain.Membership, 0, len(items))
	for i := range items {
		members = append(members, &items[i].Membership)
	}
	return members, nil
}
