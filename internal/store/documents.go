package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUnexpectedID = errors.New("inserted id is not an ObjectID")

// InsertDocuments inserts one document with InsertOne or several with
// InsertMany and returns the generated ids in insertion order.
func InsertDocuments(ctx context.Context, coll Collection, docs ...interface{}) ([]primitive.ObjectID, error) {
	switch len(docs) {
	case 0:
		return nil, nil
	case 1:
		res, err := coll.InsertOne(ctx, docs[0])
		if err != nil {
			return nil, fmt.Errorf("insert into %s: %w", coll.Name(), err)
		}
		id, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("insert into %s: %w", coll.Name(), ErrUnexpectedID)
		}
		return []primitive.ObjectID{id}, nil
	}

	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}
	ids := make([]primitive.ObjectID, 0, len(res.InsertedIDs))
	for _, raw := range res.InsertedIDs {
		id, ok := raw.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("insert into %s: %w", coll.Name(), ErrUnexpectedID)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UpdateDocument applies update to the first document matching filter. A
// filter that matches nothing is not an error.
func UpdateDocument(ctx context.Context, coll Collection, filter, update interface{}) (matched int64, err error) {
	res, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	return res.MatchedCount, nil
}

// DeleteDocument removes the first document matching filter.
func DeleteDocument(ctx context.Context, coll Collection, filter interface{}) (deleted int64, err error) {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", coll.Name(), err)
	}
	return res.DeletedCount, nil
}

// Aggregate runs pipeline on coll and decodes every result row.
func Aggregate(ctx context.Context, coll Collection, pipeline interface{}) ([]bson.M, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s aggregation: %w", coll.Name(), err)
	}
	if rows == nil {
		rows = make([]bson.M, 0)
	}
	return rows, nil
}
