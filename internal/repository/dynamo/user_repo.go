package dynamo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"axleague/internal/domain"
)

type userRepository struct {
	db     DynamoAPI
	tables Tables
}

// NewUserRepository returns a UserRepository backed by DynamoDB.
func NewUserRepository(db DynamoAPI, tables Tables) domain.UserRepository {
	return &userRepository{db: db, tables: tables}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	av, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.Users),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(userId)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tables.Users),
		Key:       map[string]types.AttributeValue{"userId": stringAttr(id)},
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrUserNotFound
	}
	var user domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getByIndex(ctx, r.tables.UsernameIndex, "username", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getByIndex(ctx, r.tables.EmailIndex, "email", email)
}

func (r *userRepository) GetByPlayerCode(ctx context.Context, playerCode string) (*domain.User, error) {
	return r.getByIndex(ctx, r.tables.PlayerCodeIndex, "playerCode", playerCode)
}

func (r *userRepository) getByIndex(ctx context.Context, index, attr, value string) (*domain.User, error) {
	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.Users),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": stringAttr(value),
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query users by %s: %w", attr, err)
	}
	if len(out.Items) == 0 {
		return nil, domain.ErrUserNotFound
	}
	var user domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) BatchGetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	for start := 0; start < len(ids); start += batchGetLimit {
		end := min(start+batchGetLimit, len(ids))
		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, map[string]types.AttributeValue{"userId": stringAttr(id)})
		}
		out, err := r.db.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				r.tables.Users: {Keys: keys},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("batch get users: %w", err)
		}
		var batch []domain.User
		if err := attributevalue.UnmarshalListOfMaps(out.Responses[r.tables.Users], &batch); err != nil {
			return nil, fmt.Errorf("unmarshal users: %w", err)
		}
		for i := range batch {
			users = append(users, &batch[i])
		}
	}
	return users, nil
}

// UpdateProfile builds the UpdateExpression from the non-nil changes only,
// so concurrent updates to disjoint fields do not clobber each other.
func (r *userRepository) UpdateProfile(ctx context.Context, userID string, changes *domain.UserProfileChanges) (*domain.User, error) {
	sets := []string{"#updatedAt = :updatedAt"}
	names := map[string]string{"#updatedAt": "updatedAt"}
	values := map[string]types.AttributeValue{
		":updatedAt": stringAttr(time.Now().UTC().Format(time.RFC3339Nano)),
	}

	add := func(attr string, value any) error {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", attr, err)
		}
		names["#"+attr] = attr
		values[":"+attr] = av
		sets = append(sets, fmt.Sprintf("#%s = :%s", attr, attr))
		return nil
	}

	fields := []struct {
		attr  string
		value any
		set   bool
	}{
		{"username", ptrVal(changes.Username), changes.Username != nil},
		{"email", ptrVal(changes.Email), changes.Email != nil},
		{"passwordHash", ptrVal(changes.PasswordHash), changes.PasswordHash != nil},
		{"firstname", ptrVal(changes.Firstname), changes.Firstname != nil},
		{"surname", ptrVal(changes.Surname), changes.Surname != nil},
		{"phone", ptrVal(changes.Phone), changes.Phone != nil},
		{"dni", ptrVal(changes.DNI), changes.DNI != nil},
		{"birthDate", ptrVal(changes.BirthDate), changes.BirthDate != nil},
		{"position", ptrVal(changes.Position), changes.Position != nil},
		{"side", ptrVal(changes.Side), changes.Side != nil},
		{"number", intPtrVal(changes.Number), changes.Number != nil},
	}
	for _, f := range fields {
		if !f.set {
			continue
		}
		if err := add(f.attr, f.value); err != nil {
			return nil, err
		}
	}

	out, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tables.Users),
		Key:                       map[string]types.AttributeValue{"userId": stringAttr(userID)},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(userId)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user profile: %w", err)
	}
	var user domain.User
	if err := attributevalue.UnmarshalMap(out.Attributes, &user); err != nil {
		return nil, fmt.Errorf("unmarshal updated user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) SetAvatarKey(ctx context.Context, userID, key string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tables.Users),
		Key:                 map[string]types.AttributeValue{"userId": stringAttr(userID)},
		UpdateExpression:    aws.String("SET avatarKey = :k, updatedAt = :t"),
		ConditionExpression: aws.String("attribute_exists(userId)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": stringAttr(key),
			":t": stringAttr(now),
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("set avatar key: %w", err)
	}
	return nil
}

func ptrVal(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func intPtrVal(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
