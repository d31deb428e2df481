package dynamo

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axleague/internal/domain"
)

func TestInviteRepositoryCreateSlotOccupied(t *testing.T) {
	db := &fakeDB{
		putItem: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			assert.Equal(t, "attribute_not_exists(sk)", *in.ConditionExpression)
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	repo := NewInviteRepository(db, testTables())

	err := repo.Create(context.Background(), &domain.Invite{
		TeamID:   "team-1",
		ToUserID: "user-2",
		Status:   domain.InviteStatusPending,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyInvited)
}

func TestInviteRepositoryAcceptTransactionShape(t *testing.T) {
	resolvedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	member := &domain.Membership{
		TeamID:     "team-1",
		UserID:     "user-2",
		AccessRole: domain.AccessRoleMember,
		TeamRole:   domain.TeamRolePlayer,
		Status:     domain.MemberStatusActive,
		JoinedAt:   resolvedAt,
	}
	var captured *dynamodb.TransactWriteItemsInput
	db := &fakeDB{
		transactWriteItems: func(in *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			captured = in
			return &dynamodb.TransactWriteItemsOutput{}, nil
		},
	}
	repo := NewInviteRepository(db, testTables())

	err := repo.AcceptWithMembership(context.Background(), "team-1", "user-2", resolvedAt, member)
	require.NoError(t, err)
	require.NotNil(t, captured)
	require.Len(t, captured.TransactItems, 2)

	put := captured.TransactItems[0].Put
	require.NotNil(t, put)
	assert.Equal(t, "team-members", *put.TableName)
	assert.Equal(t, "attribute_not_exists(sk)", *put.ConditionExpression)
	assert.Equal(t, "USER#user-2", put.Item["sk"].(*types.AttributeValueMemberS).Value)

	upd := captured.TransactItems[1].Update
	require.NotNil(t, upd)
	assert.Equal(t, "team-invites", *upd.TableName)
	assert.Equal(t, "INVITE_TO#user-2", upd.Key["sk"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "#st = :p", *upd.ConditionExpression)
	assert.Equal(t, domain.InviteStatusAccepted, upd.ExpressionAttributeValues[":a"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, domain.InviteStatusPending, upd.ExpressionAttributeValues[":p"].(*types.AttributeValueMemberS).Value)
}

func TestInviteRepositoryAcceptCanceled(t *testing.T) {
	db := &fakeDB{
		transactWriteItems: func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			return nil, &types.TransactionCanceledException{}
		},
	}
	repo := NewInviteRepository(db, testTables())

	err := repo.AcceptWithMembership(context.Background(), "team-1", "user-2", time.Now(), &domain.Membership{
		TeamID: "team-1",
		UserID: "user-2",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInviteRepositoryRejectNotPending(t *testing.T) {
	db := &fakeDB{
		updateItem: func(in *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			assert.Equal(t, "#st = :p", *in.ConditionExpression)
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	repo := NewInviteRepository(db, testTables())

	err := repo.Reject(context.Background(), "team-1", "user-2", time.Now())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInviteRepositoryListByUserUsesIndex(t *testing.T) {
	db := &fakeDB{
		query: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			assert.Equal(t, "GSI_UserInvites", *in.IndexName)
			assert.False(t, *in.ScanIndexForward)
			return &dynamodb.QueryOutput{}, nil
		},
	}
	repo := NewInviteRepository(db, testTables())

	invites, err := repo.ListByUser(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Empty(t, invites)
}
