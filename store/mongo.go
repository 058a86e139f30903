package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCollection[T any, PT entityPtr[T]] struct {
	coll *mongo.Collection
}

func NewMongoCollection[T any, PT entityPtr[T]](coll *mongo.Collection) *MongoCollection[T, PT] {
	return &MongoCollection[T, PT]{coll: coll}
}

func (c *MongoCollection[T, PT]) Name() string {
	return c.coll.Name()
}

// EnsureUnique creates a unique index on each field.
func (c *MongoCollection[T, PT]) EnsureUnique(ctx context.Context, fields ...string) error {
	for _, field := range fields {
		indexModel := mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := c.coll.Indexes().CreateOne(ctx, indexModel); err != nil {
			return fmt.Errorf("failed to create unique index on %s.%s: %w", c.coll.Name(), field, err)
		}
	}
	return nil
}

func (c *MongoCollection[T, PT]) Find(ctx context.Context, filter Filter) ([]*T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := c.coll.Find(ctx, toBSON(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("unsuccessful procurement of %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []*T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("unsuccessful decoding of %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}

func (c *MongoCollection[T, PT]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	doc := new(T)
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	err := c.coll.FindOne(ctx, toBSON(filter), opts).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching from %s: %w", c.coll.Name(), err)
	}
	return doc, nil
}

func (c *MongoCollection[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return c.FindOne(ctx, Filter{"_id": objectID})
}

func (c *MongoCollection[T, PT]) Insert(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()
	if meta.ID.IsZero() {
		meta.ID = primitive.NewObjectID()
	}
	meta.CreatedAt = now()
	meta.UpdatedAt = meta.CreatedAt

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{Err: err}
		}
		return fmt.Errorf("failed to insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *MongoCollection[T, PT]) Replace(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()
	meta.UpdatedAt = now()

	result, err := c.coll.ReplaceOne(ctx, bson.M{"_id": meta.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{Err: err}
		}
		return fmt.Errorf("failed to update %s: %w", c.coll.Name(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoCollection[T, PT]) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := c.coll.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", c.coll.Name(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoCollection[T, PT]) Count(ctx context.Context, filter Filter) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", c.coll.Name(), err)
	}
	return n, nil
}

func toBSON(filter Filter) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return bson.M(filter)
}
