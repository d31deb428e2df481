package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"axleague/internal/domain"
)

type eventRepository struct {
	db     DynamoAPI
	tables Tables
}

// NewEventRepository returns an EventRepository backed by DynamoDB.
func NewEventRepository(db DynamoAPI, tables Tables) domain.EventRepository {
	return &eventRepository{db: db, tables: tables}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	av, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.Events),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(eventId)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, eventID string) (*domain.Event, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tables.Events),
		Key:       map[string]types.AttributeValue{"eventId": stringAttr(eventID)},
	})
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrNotFound
	}
	var event domain.Event
	if err := attributevalue.UnmarshalMap(out.Item, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &event, nil
}

// GetOpen scans for REGISTRATION_OPEN events. The events table stays tiny
// (one or two rows per season), so a filtered scan is fine here. If more
// than one is open by mistake, the newest by opening date wins.
func (r *eventRepository) GetOpen(ctx context.Context) (*domain.Event, error) {
	out, err := r.db.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tables.Events),
		FilterExpression: aws.String("#st = :open"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":open": stringAttr(domain.EventStatusRegistrationOpen),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan open events: %w", err)
	}
	var events []domain.Event
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &events); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	if len(events) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].RegistrationOpensAt.After(events[j].RegistrationOpensAt)
	})
	return &events[0], nil
}
