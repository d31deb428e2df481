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

// teamItem is a TEAM row. Lock rows share the table under a TEAMNAME# key.
type teamItem struct {
	domain.Team
	Type string `dynamodbav:"type"`
}

// nameLockItem reserves a normalized team name. Its primary key is the
// derived TEAMNAME#<normalized> value, which turns name uniqueness into key
// uniqueness the store enforces on insert.
type nameLockItem struct {
	TeamID         string    `dynamodbav:"teamId"`
	Type           string    `dynamodbav:"type"`
	NameNormalized string    `dynamodbav:"teamNameNormalized"`
	NameOriginal   string    `dynamodbav:"teamNameOriginal"`
	PointsToTeamID string    `dynamodbav:"pointsToTeamId"`
	CreatedAt      time.Time `dynamodbav:"createdAt"`
}

type teamRepository struct {
	db     DynamoAPI
	tables Tables
}

// NewTeamRepository returns a TeamRepository backed by DynamoDB.
func NewTeamRepository(db DynamoAPI, tables Tables) domain.TeamRepository {
	return &teamRepository{db: db, tables: tables}
}

func (r *teamRepository) CreateWithOwner(ctx context.Context, team *domain.Team, owner *domain.Membership) error {
	lock := nameLockItem{
		TeamID:         teamNameLockPK + team.NameNormalized,
		Type:           teamNameLockType,
		NameNormalized: team.NameNormalized,
		NameOriginal:   team.Name,
		PointsToTeamID: team.ID,
		CreatedAt:      team.CreatedAt,
	}
	lockAV, err := attributevalue.MarshalMap(lock)
	if err != nil {
		return fmt.Errorf("marshal name lock: %w", err)
	}
	teamAV, err := attributevalue.MarshalMap(teamItem{Team: *team, Type: teamRowType})
	if err != nil {
		return fmt.Errorf("marshal team: %w", err)
	}
	ownerAV, err := attributevalue.MarshalMap(memberItem{Membership: *owner, SK: memberSKPrefix + owner.UserID})
	if err != nil {
		return fmt.Errorf("marshal owner membership: %w", err)
	}

	_, err = r.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tables.Teams),
				Item:                lockAV,
				ConditionExpression: aws.String("attribute_not_exists(teamId)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.tables.Teams),
				Item:                teamAV,
				ConditionExpression: aws.String("attribute_not_exists(teamId)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.tables.TeamMembers),
				Item:                ownerAV,
				ConditionExpression: aws.String("attribute_not_exists(sk)"),
			}},
		},
	})
	if err != nil {
		// The lock condition is the only practically reachable cancellation:
		// teamId is a fresh uuid and the owner row keys off it.
		if isTransactionCanceled(err) || isConditionalCheckFailed(err) {
			return domain.ErrTeamNameTaken
		}
		return fmt.Errorf("create team transaction: %w", err)
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tables.Teams),
		Key:       map[string]types.AttributeValue{"teamId": stringAttr(teamID)},
	})
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrNotFound
	}
	var item teamItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal team: %w", err)
	}
	if item.Type != teamRowType {
		return nil, domain.ErrNotFound
	}
	return &item.Team, nil
}

func (r *teamRepository) BatchGetByIDs(ctx context.Context, teamIDs []string) ([]*domain.Team, error) {
	teams := make([]*domain.Team, 0, len(teamIDs))
	for start := 0; start < len(teamIDs); start += batchGetLimit {
		end := min(start+batchGetLimit, len(teamIDs))
		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range teamIDs[start:end] {
			keys = append(keys, map[string]types.AttributeValue{"teamId": stringAttr(id)})
		}
		out, err := r.db.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				r.tables.Teams: {Keys: keys},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("batch get teams: %w", err)
		}
		var items []teamItem
		if err := attributevalue.UnmarshalListOfMaps(out.Responses[r.tables.Teams], &items); err != nil {
			return nil, fmt.Errorf("unmarshal teams: %w", err)
		}
		for i := range items {
			if items[i].Type == teamRowType {
				teams = append(teams, &items[i].Team)
			}
		}
	}
	return teams, nil
}

func (r *teamRepository) SetLogoKey(ctx context.Context, teamID, key string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tables.Teams),
		Key:                 map[string]types.AttributeValue{"teamId": stringAttr(teamID)},
		UpdateExpression:    aws.String("SET logoKey = :k, updatedAt = :t"),
		ConditionExpression: aws.String("attribute_exists(teamId)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": stringAttr(key),
			":t": stringAttr(now),
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set logo key: %w", err)
	}
	return nil
}
