package repository

import (
	"context"
	"time"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/domain/entities"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const defaultSubscriptionsTableName = "subscriptions"

type subscriptionItem struct {
	UserID      string `dynamodbav:"user_id"`
	PlanID      string `dynamodbav:"plan_id"`
	PaymentID   string `dynamodbav:"payment_id"`
	Status      string `dynamodbav:"status"`
	ActivatedAt string `dynamodbav:"activated_at"`
}

// SubscriptionDynamoRepository persists Subscription activations in DynamoDB
// (PK: user_id). Activation overwrites the previous subscription item.

type SubscriptionDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ISubscriptionRepository = (*SubscriptionDynamoRepository)(nil)

func NewSubscriptionDynamoRepository(ddb *dynamodb.Client) *SubscriptionDynamoRepository {
	return &SubscriptionDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("SUBSCRIPTIONS_TABLE", defaultSubscriptionsTableName),
	}
}

func (r *SubscriptionDynamoRepository) Activate(ctx context.Context, userID, planID, paymentID string) error {
	sub := entities.Subscription{
		UserID:      userID,
		PlanID:      planID,
		PaymentID:   paymentID,
		Status:      "active",
		ActivatedAt: time.Now().UTC(),
	}
	av, err := attributevalue.MarshalMap(subscriptionItem{
		UserID:      sub.UserID,
		PlanID:      sub.PlanID,
		PaymentID:   sub.PaymentID,
		Status:      sub.Status,
		ActivatedAt: sub.ActivatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}
