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

// registrationItem is an EventRegistrations row, keyed (eventId,
// TEAM#<teamId>). The key shape makes "one registration per team per event"
// a plain insert condition.
type registrationItem struct {
	domain.EventRegistration
	SK string `dynamodbav:"sk"`
}

type registrationRepository struct {
	db     DynamoAPI
	tables Tables
}

// NewRegistrationRepository returns an EventRegistrationRepository backed by
// DynamoDB.
func NewRegistrationRepository(db DynamoAPI, tables Tables) domain.EventRegistrationRepository {
	return &registrationRepository{db: db, tables: tables}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.EventRegistration) error {
	av, err := attributevalue.MarshalMap(registrationItem{EventRegistration: *reg, SK: regSKPrefix + reg.TeamID})
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.EventRegistrations),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(sk)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.EventRegistration, error) {
	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.EventRegistrations),
		KeyConditionExpression: aws.String("#pk = :eventId"),
		ExpressionAttributeNames: map[string]string{
			"#pk": "eventId",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":eventId": stringAttr(eventID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	var items []registrationItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("unmarshal registrations: %w", err)
	}
	regs := make([]*domain.EventRegistration, 0, len(items))
	for i := range items {
		regs = append(regs, &items[i].EventRegistration)
	}
	return regs, nil
}
