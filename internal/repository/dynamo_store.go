package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/model"
)

const (
	// batchWriteLimit is the most requests DynamoDB accepts per BatchWriteItem.
	batchWriteLimit = 25
	// maxBatchRetries bounds the resubmission of unprocessed items.
	maxBatchRetries = 5
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

type userItem struct {
	Username     string `dynamodbav:"username"`
	PasswordHash string `dynamodbav:"password_hash"`
	Salt         string `dynamodbav:"salt"`
	CreatedAt    string `dynamodbav:"created_at"`
}

type goalItem struct {
	Username  string `dynamodbav:"username"`
	ID        string `dynamodbav:"id"`
	Position  int    `dynamodbav:"position"`
	Text      string `dynamodbav:"text"`
	Category  string `dynamodbav:"category"`
	Completed bool   `dynamodbav:"completed"`
	CreatedAt string `dynamodbav:"created_at,omitempty"`
	Data      string `dynamodbav:"data"`
}

// DynamoStore keeps users and goals in two DynamoDB tables. DynamoDB cannot
// delete and insert a hundred goals in one transaction, so a replace here is
// a best-effort delete-then-insert with no rollback.
type DynamoStore struct {
	client     DynamoAPI
	usersTable string
	goalsTable string
}

var _ Store = (*DynamoStore)(nil)

// NewDynamoStore builds a store for the tables "<prefix>users" and "<prefix>goals".
func NewDynamoStore(client DynamoAPI, tablePrefix string) *DynamoStore {
	return &DynamoStore{
		client:     client,
		usersTable: tablePrefix + "users",
		goalsTable: tablePrefix + "goals",
	}
}

// NewDynamoClient loads the default AWS credential chain for region. A
// non-empty endpoint points the client at a local DynamoDB.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func (s *DynamoStore) Users() UserRepository { return dynamoUsers{s} }

func (s *DynamoStore) Goals() GoalRepository { return dynamoGoals{s} }

func (s *DynamoStore) Close() error { return nil }

// Migrate creates missing tables (pay-per-request) and waits until they are active.
func (s *DynamoStore) Migrate(ctx context.Context) error {
	if err := s.ensureTable(ctx, s.usersTable, "username", ""); err != nil {
		return err
	}
	return s.ensureTable(ctx, s.goalsTable, "username", "id")
}

func (s *DynamoStore) ensureTable(ctx context.Context, name, hashKey, rangeKey string) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table %s: %w", name, err)
	}

	in := &dynamodb.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(hashKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
		},
	}
	if rangeKey != "" {
		in.AttributeDefinitions = append(in.AttributeDefinitions,
			types.AttributeDefinition{AttributeName: aws.String(rangeKey), AttributeType: types.ScalarAttributeTypeS})
		in.KeySchema = append(in.KeySchema,
			types.KeySchemaElement{AttributeName: aws.String(rangeKey), KeyType: types.KeyTypeRange})
	}
	if _, err := s.client.CreateTable(ctx, in); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table %s: %w", name, err)
	}
	return nil
}

type dynamoUsers struct{ s *DynamoStore }

// Create relies on a conditional put, so two racing registrations of the
// same username cannot both succeed.
func (r dynamoUsers) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	item, err := attributevalue.MarshalMap(userItem{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Salt:         user.Salt,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return apperrors.Persistence("encode user", err)
	}

	_, err = r.s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.s.usersTable),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#u)"),
		ExpressionAttributeNames: map[string]string{"#u": "username"},
	})
	var exists *types.ConditionalCheckFailedException
	if errors.As(err, &exists) {
		return apperrors.ErrConflict
	}
	return apperrors.Persistence("create user", err)
}

func (r dynamoUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	out, err := r.s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.s.usersTable),
		Key:            map[string]types.AttributeValue{"username": &types.AttributeValueMemberS{Value: username}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, apperrors.Persistence("find user", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, apperrors.Persistence("decode user", err)
	}
	created, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	return &model.User{
		Username:     item.Username,
		PasswordHash: item.PasswordHash,
		Salt:         item.Salt,
		CreatedAt:    created,
	}, nil
}

type dynamoGoals struct{ s *DynamoStore }

func (r dynamoGoals) ListByUser(ctx context.Context, username string) ([]model.Goal, error) {
	items, err := r.query(ctx, username, false)
	if err != nil {
		return nil, apperrors.Persistence("list goals", err)
	}

	var rows []goalItem
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, apperrors.Persistence("decode goals", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Position != rows[j].Position {
			return rows[i].Position < rows[j].Position
		}
		return rows[i].ID < rows[j].ID
	})

	goals := make([]model.Goal, 0, len(rows))
	for _, row := range rows {
		g, err := row.record().Goal()
		if err != nil {
			return nil, apperrors.Persistence("decode goal", err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// ReplaceForUser deletes every stored key, then writes goals. A failure
// part-way leaves whatever was already applied.
func (r dynamoGoals) ReplaceForUser(ctx context.Context, username string, goals []model.Goal) error {
	keys, err := r.query(ctx, username, true)
	if err != nil {
		return apperrors.Persistence("list goal keys", err)
	}

	deletes := make([]types.WriteRequest, 0, len(keys))
	for _, k := range keys {
		deletes = append(deletes, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: k}})
	}
	if err := r.writeAll(ctx, deletes); err != nil {
		return apperrors.Persistence("delete goals", err)
	}

	puts := make([]types.WriteRequest, 0, len(goals))
	for i, g := range goals {
		rec, err := model.NewGoalRecord(username, i, g)
		if err != nil {
			return apperrors.Persistence("encode goal", err)
		}
		item, err := attributevalue.MarshalMap(newGoalItem(rec))
		if err != nil {
			return apperrors.Persistence("encode goal", err)
		}
		puts = append(puts, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	return apperrors.Persistence("insert goals", r.writeAll(ctx, puts))
}

func (r dynamoGoals) query(ctx context.Context, username string, keysOnly bool) ([]map[string]types.AttributeValue, error) {
	in := &dynamodb.QueryInput{
		TableName:                 aws.String(r.s.goalsTable),
		KeyConditionExpression:    aws.String("#u = :u"),
		ExpressionAttributeNames:  map[string]string{"#u": "username"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: username}},
		ConsistentRead:            aws.Bool(true),
	}
	if keysOnly {
		in.ProjectionExpression = aws.String("#u, #i")
		in.ExpressionAttributeNames["#i"] = "id"
	}

	var items []map[string]types.AttributeValue
	for {
		out, err := r.s.client.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r dynamoGoals) writeAll(ctx context.Context, reqs []types.WriteRequest) error {
	for start := 0; start < len(reqs); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(reqs) {
			end = len(reqs)
		}
		if err := r.writeBatch(ctx, reqs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r dynamoGoals) writeBatch(ctx context.Context, batch []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{r.s.goalsTable: batch}
	backoff := 50 * time.Millisecond

	for attempt := 0; ; attempt++ {
		out, err := r.s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems[r.s.goalsTable]) == 0 {
			return nil
		}
		if attempt == maxBatchRetries {
			return fmt.Errorf("%d writes still unprocessed after %d retries", len(out.UnprocessedItems[r.s.goalsTable]), maxBatchRetries)
		}
		pending = out.UnprocessedItems

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func newGoalItem(rec model.GoalRecord) goalItem {
	item := goalItem{
		Username:  rec.Username,
		ID:        rec.ID,
		Position:  rec.Position,
		Text:      rec.Text,
		Category:  rec.Category,
		Completed: rec.Completed,
		Data:      string(rec.Data),
	}
	if rec.CreatedOn != nil {
		item.CreatedAt = rec.CreatedOn.Format(time.RFC3339Nano)
	}
	return item
}

func (i goalItem) record() model.GoalRecord {
	rec := model.GoalRecord{
		Username:  i.Username,
		ID:        i.ID,
		Position:  i.Position,
		Text:      i.Text,
		Category:  i.Category,
		Completed: i.Completed,
		Data:      []byte(i.Data),
	}
	if t, err := time.Parse(time.RFC3339Nano, i.CreatedAt); err == nil {
		rec.CreatedOn = &t
	}
	return rec
}
