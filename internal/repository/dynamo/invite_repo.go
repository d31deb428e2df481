package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"axleague/internal/domain"
)

// inviteItem is a TeamInvites row. The sort key INVITE_TO#<userId> makes the
// (team, user) pair a single slot: a second invite for the same pair fails
// the insert condition instead of needing its own uniqueness check.
type inviteItem struct {
	domain.Invite
	SK string `dynamodbav:"sk"`
}

type inviteRepository struct {
	db     DynamoAPI
	tables Tables
}

// NewInviteRepository returns an InviteRepository backed by DynamoDB.
func NewInviteRepository(db DynamoAPI, tables Tables) domain.InviteRepository {
	return &inviteRepository{db: db, tables: tables}
}

func (r *inviteRepository) Get(ctx context.Context, teamID, toUserID string) (*domain.Invite, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tables.TeamInvites),
		Key: map[string]types.AttributeValue{
			"teamId": stringAttr(teamID),
			"sk":     stringAttr(inviteSKPrefix + toUserID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrNotFound
	}
	var item inviteItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal invite: %w", err)
	}
	return &item.Invite, nil
}

func (r *inviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	av, err := attributevalue.MarshalMap(inviteItem{Invite: *inv, SK: inviteSKPrefix + inv.ToUserID})
	if err != nil {
		return fmt.Errorf("marshal invite: %w", err)
	}
	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.TeamInvites),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(sk)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrAlreadyInvited
		}
		return fmt.Errorf("create invite: %w", err)
	}
	return nil
}

// AcceptWithMembership commits both sides of an acceptance in one
// transaction. Either condition failing aborts the whole set, so at most one
// membership is ever created per accepted invite, under any concurrency.
func (r *inviteRepository) AcceptWithMembership(ctx context.Context, teamID, toUserID string, resolvedAt time.Time, m *domain.Membership) error {
	memberAV, err := attributevalue.MarshalMap(memberItem{Membership: *m, SK: memberSKPrefix + m.UserID})
	if err != nil {
		return fmt.Errorf("marshal membership: %w", err)
	}
	_, err = r.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tables.TeamMembers),
				Item:                memberAV,
				ConditionExpression: aws.String("attribute_not_exists(sk)"),
			}},
			{Update: &types.Update{
				TableName: aws.String(r.tables.TeamInvites),
				Key: map[string]types.AttributeValue{
					"teamId": stringAttr(teamID),
					"sk":     stringAttr(inviteSKPrefix + toUserID),
				},
				UpdateExpression:    aws.String("SET #st = :a, resolvedAt = :t"),
				ConditionExpression: aws.String("#st = :p"),
				ExpressionAttributeNames: map[string]string{
					"#st": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":a": stringAttr(domain.InviteStatusAccepted),
					":p": stringAttr(domain.InviteStatusPending),
					":t": stringAttr(resolvedAt.UTC().Format(time.RFC3339Nano)),
				},
			}},
		},
	})
	if err != nil {
		if isTransactionCanceled(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("accept invite transaction: %w", err)
	}
	return nil
}

func (r *inviteRepository) Reject(ctx context.Context, teamID, toUserID string, resolvedAt time.Time) error {
	_, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tables.TeamInvites),
		Key: map[string]types.AttributeValue{
			"teamId": stringAttr(teamID),
			"sk":     stringAttr(inviteSKPrefix + toUserID),
		},
		UpdateExpression:    aws.String("SET #st = :r, resolvedAt = :t"),
		ConditionExpression: aws.String("#st = :p"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":r": stringAttr(domain.InviteStatusRejected),
			":p": stringAttr(domain.InviteStatusPending),
			":t": stringAttr(resolvedAt.UTC().Format(time.RFC3339Nano)),
		},
	})
	if err != nil {
		// Absent row and resolved row both fail the condition; the service
		// re-reads to tell them apart.
		if isConditionalCheckFailed(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("reject invite: %w", err)
	}
	return nil
}

func (r *inviteRepository) ListByUser(ctx context.Context, toUserID string) ([]*domain.Invite, error) {
	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.TeamInvites),
		IndexName:              aws.String(r.tables.UserInvitesIndex),
		KeyConditionExpression: aws.String("#u = :uid"),
		ExpressionAttributeNames: map[string]string{
			"#u": "toUserId",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": stringAttr(toUserID),
		},
		// Index range key is createdAt; newest first.
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("query user invites: %w", err)
	}
	var items []inviteItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("unmarshal invites: %w", err)
	}
	invites := make([]*domain.Invite, 0, len(items))
	for i := range items {
		invites = append(invites, &items[i].Invite)
	}
	return invites, nil
}
