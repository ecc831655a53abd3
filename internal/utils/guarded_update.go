package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/securevote/app-verify/internal/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrDocumentNotFound is returned when no document matches the base filter.
var ErrDocumentNotFound = errors.New("document not found")

// GuardError means the document exists but no longer satisfies the guard,
// typically because another writer changed it first.
type GuardError struct {
	Resource string
	Message  string
}

func (e GuardError) Error() string {
	return fmt.Sprintf("guarded update conflict for %s: %s", e.Resource, e.Message)
}

// GuardedUpdateResult represents the result of a guarded update
type GuardedUpdateResult struct {
	MatchedCount int64
	UpdatedAt    time.Time
}

// UpdateWithGuard applies update to the document matching filter only while it
// also matches guard. updated_at is set on every successful update. filter and
// guard are not modified.
func UpdateWithGuard(ctx context.Context, collection *mongo.Collection, filter, guard, update bson.M) (*GuardedUpdateResult, error) {
	logger := logging.Logger.With(zap.String("collection", collection.Name()))

	guarded := bson.M{}
	for k, v := range filter {
		guarded[k] = v
	}
	for k, v := range guard {
		guarded[k] = v
	}

	now := time.Now().UTC()
	set, _ := update["$set"].(bson.M)
	withTimestamp := bson.M{}
	for k, v := range update {
		withTimestamp[k] = v
	}
	stamped := bson.M{"updated_at": now}
	for k, v := range set {
		stamped[k] = v
	}
	withTimestamp["$set"] = stamped

	result, err := collection.UpdateOne(ctx, guarded, withTimestamp)
	if err != nil {
		logger.Error("failed to perform guarded update", zap.Error(err))
		return nil, fmt.Errorf("failed to perform guarded update: %w", err)
	}

	if result.MatchedCount == 0 {
		var existing bson.M
		err := collection.FindOne(ctx, filter).Decode(&existing)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDocumentNotFound
		}
		if err != nil {
			logger.Error("failed to check existing document", zap.Error(err))
			return nil, fmt.Errorf("failed to check existing document: %w", err)
		}

		logger.Warn("guarded update conflict detected", zap.Any("guard", guard))
		return nil, GuardError{
			Resource: collection.Name(),
			Message:  fmt.Sprintf("document no longer matches guard %v", guard),
		}
	}

	return &GuardedUpdateResult{MatchedCount: result.MatchedCount, UpdatedAt: now}, nil
}
