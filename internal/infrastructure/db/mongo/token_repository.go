package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack/accounts-api/internal/core/domain"
)

const tokenCollection = "tokens"

// TokenRepository persists single-use tokens in MongoDB.
//
// The unique compound index on (account_id, purpose) makes "at most one live
// token per account and purpose" a store-level guarantee: Issue replaces via
// upsert on that key, and Consume is a single find-and-delete keyed on the
// full (account_id, purpose, secret) triple, so a token can never be redeemed
// twice and the secret is matched by the store rather than by iterating rows.
type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(tokenCollection)}
}

type tokenDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AccountID string             `bson:"account_id"`
	Purpose   string             `bson:"purpose"`
	Secret    string             `bson:"secret"`
	IssuedAt  time.Time          `bson:"issued_at"`
	ExpiresAt time.Time          `bson:"expires_at"`
}

// EnsureIndexes creates the live-token uniqueness indexes and the TTL index
// that reaps expired tokens. Call once at startup.
func (r *TokenRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "purpose", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "secret", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("create token indexes: %w", err)
	}
	return nil
}

// Issue writes a fresh token for (accountID, purpose), superseding any prior
// live token of the same purpose via an upsert on the unique compound key.
// When two issuances race, one upsert may lose the insert and fail on the
// unique index; a single retry resolves it with exactly one survivor.
func (r *TokenRepository) Issue(ctx context.Context, accountID string, purpose domain.TokenPurpose, ttl time.Duration) (*domain.Token, error) {
	secret, err := domain.NewTokenSecret()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := tokenDoc{
		AccountID: accountID,
		Purpose:   string(purpose),
		Secret:    secret,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	filter := bson.M{"account_id": accountID, "purpose": string(purpose)}

	for attempt := 0; ; attempt++ {
		_, err = r.coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
		if err == nil {
			break
		}
		if mongo.IsDuplicateKeyError(err) && attempt == 0 {
			continue
		}
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &domain.Token{
		AccountID: accountID,
		Purpose:   purpose,
		Secret:    secret,
		IssuedAt:  now,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

// Consume deletes the live token for (accountID, purpose) iff the secret
// matches and the token has not expired. The find-and-delete is a single
// atomic operation, so exactly one of two concurrent redemptions succeeds.
func (r *TokenRepository) Consume(ctx context.Context, accountID string, purpose domain.TokenPurpose, secret string) error {
	filter := bson.M{
		"account_id": accountID,
		"purpose":    string(purpose),
		"secret":     secret,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}

	err := r.coll.FindOneAndDelete(ctx, filter).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("consume token: %w", err)
	}
	return nil
}
