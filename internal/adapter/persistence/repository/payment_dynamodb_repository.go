package repository

import (
	"context"
	"time"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/domain/entities"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPaymentsTableName    = "payments"
	paymentsGatewayOrderIDIndex = "gateway_order_id-index"
	paymentsStatusIndex         = "status-index"
)

type paymentItem struct {
	ID                   string  `dynamodbav:"id"`
	UserID               string  `dynamodbav:"user_id"`
	PlanID               string  `dynamodbav:"plan_id,omitempty"`
	Amount               float64 `dynamodbav:"amount"`
	Currency             string  `dynamodbav:"currency,omitempty"`
	MerchantOrderID      string  `dynamodbav:"merchant_order_id,omitempty"`
	GatewayOrderID       string  `dynamodbav:"gateway_order_id,omitempty"`
	GatewayTransactionID string  `dynamodbav:"gateway_transaction_id,omitempty"`
	RefundID             string  `dynamodbav:"refund_id,omitempty"`
	Status               string  `dynamodbav:"status"`
	FailureReason        string  `dynamodbav:"failure_reason,omitempty"`
	CreatedAt            string  `dynamodbav:"created_at"`
	UpdatedAt            string  `dynamodbav:"updated_at"`
	CompletedAt          string  `dynamodbav:"completed_at,omitempty"`
}

// PaymentDynamoRepository persists Payment entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: gateway_order_id-index (PK: gateway_order_id)
//   - GSI: status-index (PK: status)

type PaymentDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb *dynamodb.Client) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PAYMENTS_TABLE", defaultPaymentsTableName),
	}
}

func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.Payment{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Item) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func (r *PaymentDynamoRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (entities.Payment, error) {
	if gatewayOrderID == "" {
		return entities.Payment{}, nil
	}
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsGatewayOrderIDIndex),
		KeyConditionExpression: aws.String("gateway_order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: gatewayOrderID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Items) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func (r *PaymentDynamoRepository) Update(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.Payment{}, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) ListByStatus(ctx context.Context, status entities.PaymentStatus) ([]entities.Payment, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsStatusIndex),
		KeyConditionExpression: aws.String("#status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.Payment, 0, len(out.Items))
	for _, raw := range out.Items {
		var it paymentItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromPaymentItem(it))
	}
	return items, nil
}

func toPaymentItem(p entities.Payment) paymentItem {
	it := paymentItem{
		ID:                   p.ID,
		UserID:               p.UserID,
		PlanID:               p.PlanID,
		Amount:               p.Amount,
		Currency:             p.Currency,
		MerchantOrderID:      p.MerchantOrderID,
		GatewayOrderID:       p.GatewayOrderID,
		GatewayTransactionID: p.GatewayTransactionID,
		RefundID:             p.RefundID,
		Status:               string(p.Status),
		FailureReason:        p.FailureReason,
		CreatedAt:            p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:            p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if p.CompletedAt != nil {
		it.CompletedAt = p.CompletedAt.UTC().Format(time.RFC3339Nano)
	}
	return it
}

func fromPaymentItem(it paymentItem) entities.Payment {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	p := entities.Payment{
		ID:                   it.ID,
		UserID:               it.UserID,
		PlanID:               it.PlanID,
		Amount:               it.Amount,
		Currency:             it.Currency,
		MerchantOrderID:      it.MerchantOrderID,
		GatewayOrderID:       it.GatewayOrderID,
		GatewayTransactionID: it.GatewayTransactionID,
		RefundID:             it.RefundID,
		Status:               entities.PaymentStatus(it.Status),
		FailureReason:        it.FailureReason,
		CreatedAt:            createdAt,
		UpdatedAt:            updatedAt,
	}
	if it.CompletedAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, it.CompletedAt); err == nil {
			p.CompletedAt = &ts
		}
	}
	return p
}
