package dynamo

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axleague/internal/domain"
)

func TestEventRepositoryCreateDuplicate(t *testing.T) {
	db := &fakeDB{
		putItem: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			assert.Equal(t, "attribute_not_exists(eventId)", *in.ConditionExpression)
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	repo := NewEventRepository(db, testTables())

	err := repo.Create(context.Background(), &domain.Event{ID: "event-1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestEventRepositoryGetOpenNone(t *testing.T) {
	repo := NewEventRepository(&fakeDB{}, testTables())

	_, err := repo.GetOpen(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepositoryGetOpenNewestWins(t *testing.T) {
	older, err := attributevalue.MarshalMap(domain.Event{
		ID:                  "event-old",
		Status:              domain.EventStatusRegistrationOpen,
		RegistrationOpensAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	newer, err := attributevalue.MarshalMap(domain.Event{
		ID:                  "event-new",
		Status:              domain.EventStatusRegistrationOpen,
		RegistrationOpensAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	db := &fakeDB{
		scan: func(in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
			assert.Equal(t, "#st = :open", *in.FilterExpression)
			return &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{older, newer}}, nil
		},
	}
	repo := NewEventRepository(db, testTables())

	event, err := repo.GetOpen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "event-new", event.ID)
}
