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

const defaultWalletsTableName = "wallets"

type walletItem struct {
	UserID    string  `dynamodbav:"user_id"`
	Balance   float64 `dynamodbav:"balance"`
	Currency  string  `dynamodbav:"currency,omitempty"`
	UpdatedAt string  `dynamodbav:"updated_at"`
}

// WalletDynamoRepository persists Wallet balances in DynamoDB (PK: user_id).
//
// Credit uses an ADD update expression so concurrent credits both land and
// a missing wallet item is created on first credit.

type WalletDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IWalletRepository = (*WalletDynamoRepository)(nil)

func NewWalletDynamoRepository(ddb *dynamodb.Client) *WalletDynamoRepository {
	return &WalletDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("WALLETS_TABLE", defaultWalletsTableName),
	}
}

func (r *WalletDynamoRepository) Credit(ctx context.Context, userID string, amount float64) (entities.Wallet, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression: aws.String("ADD balance :amount SET updated_at = :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amount": &types.AttributeValueMemberN{Value: formatAmount(amount)},
			":now":    &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return entities.Wallet{}, err
	}

	var it walletItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Wallet{}, err
	}
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return entities.Wallet{
		UserID:    it.UserID,
		Balance:   it.Balance,
		Currency:  it.Currency,
		UpdatedAt: updatedAt,
	}, nil
}
