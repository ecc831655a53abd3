package utils

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultQueryTimeout bounds every store query when the caller passes no timeout.
const DefaultQueryTimeout = 10 * time.Second

// queryContext derives the per-query context. A non-positive timeout falls back to DefaultQueryTimeout.
func queryContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// FindOneWithTimeout decodes the first document matching filter into result.
// mongo.ErrNoDocuments is returned unchanged so callers can map it to their own not-found error.
func FindOneWithTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, result interface{}, timeout time.Duration) error {
	qctx, cancel := queryContext(ctx, timeout)
	defer cancel()
	return collection.FindOne(qctx, filter).Decode(result)
}

// FindAllWithTimeout decodes every matching document into results, which must be a slice pointer.
func FindAllWithTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, results interface{}, timeout time.Duration, opts ...*options.FindOptions) error {
	qctx, cancel := queryContext(ctx, timeout)
	defer cancel()

	cursor, err := collection.Find(qctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(qctx)
	return cursor.All(qctx, results)
}

// UpdateOneWithTimeout applies update to the first document matching filter.
func UpdateOneWithTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, update bson.M, timeout time.Duration) (*mongo.UpdateResult, error) {
	qctx, cancel := queryContext(ctx, timeout)
	defer cancel()
	return collection.UpdateOne(qctx, filter, update)
}

// InsertOneWithTimeout inserts document. Duplicate keys surface as mongo.IsDuplicateKeyError.
func InsertOneWithTimeout(ctx context.Context, collection *mongo.Collection, document interface{}, timeout time.Duration) (*mongo.InsertOneResult, error) {
	qctx, cancel := queryContext(ctx, timeout)
	defer cancel()
	return collection.InsertOne(qctx, document)
}

// CountDocumentsWithTimeout counts documents matching filter.
func CountDocumentsWithTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, timeout time.Duration) (int64, error) {
	qctx, cancel := queryContext(ctx, timeout)
	defer cancel()
	return collection.CountDocuments(qctx, filter)
}
