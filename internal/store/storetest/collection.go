// Package storetest provides an in-memory store.Collection for tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/tienda-ropa/internal/models"
	"github.com/harentsoaR/tienda-ropa/internal/store"
)

// Operation names accepted by Collection.FailOn.
const (
	OpInsertOne  = "insertOne"
	OpInsertMany = "insertMany"
	OpUpdateOne  = "updateOne"
	OpDeleteOne  = "deleteOne"
	OpAggregate  = "aggregate"
)

// Collection keeps documents as bson.M after a marshal round trip, so stored
// values have the types the driver would produce. Filters support top-level
// equality only; updates support $set and $inc.
type Collection struct {
	name string
	st   *Store

	mu    sync.Mutex
	docs  []bson.M
	fail  map[string]error
	calls []string

	// AggregateFunc produces the rows returned by Aggregate. Nil returns no rows.
	AggregateFunc func(pipeline interface{}) ([]interface{}, error)
}

var _ store.Collection = (*Collection)(nil)

func (c *Collection) Name() string { return c.name }

// FailOn makes every later call of op return err.
func (c *Collection) FailOn(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail[op] = err
}

// Calls returns the operations issued so far, in order.
func (c *Collection) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Docs returns a snapshot of the stored documents.
func (c *Collection) Docs() []bson.M {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bson.M, len(c.docs))
	copy(out, c.docs)
	return out
}

// FindByID returns the document with the given _id, or nil.
func (c *Collection) FindByID(id primitive.ObjectID) bson.M {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.docs {
		if d["_id"] == id {
			return d
		}
	}
	return nil
}

func (c *Collection) begin(op string) error {
	c.st.touch(c.name, op)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, op)
	return c.fail[op]
}

func (c *Collection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if err := c.begin(OpInsertOne); err != nil {
		return nil, err
	}
	id, err := c.insert(document)
	if err != nil {
		return nil, err
	}
	return &mongo.InsertOneResult{InsertedID: id}, nil
}

func (c *Collection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	if err := c.begin(OpInsertMany); err != nil {
		return nil, err
	}
	ids := make([]interface{}, 0, len(documents))
	for _, d := range documents {
		id, err := c.insert(d)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return &mongo.InsertManyResult{InsertedIDs: ids}, nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	if err := c.begin(OpUpdateOne); err != nil {
		return nil, err
	}
	f, err := toM(filter)
	if err != nil {
		return nil, err
	}
	u, err := toM(update)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.docs {
		if !matches(d, f) {
			continue
		}
		if err := apply(d, u); err != nil {
			return nil, err
		}
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return &mongo.UpdateResult{}, nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	if err := c.begin(OpDeleteOne); err != nil {
		return nil, err
	}
	f, err := toM(filter)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.docs {
		if matches(d, f) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (c *Collection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	if err := c.begin(OpAggregate); err != nil {
		return nil, err
	}
	var rows []interface{}
	if c.AggregateFunc != nil {
		var err error
		if rows, err = c.AggregateFunc(pipeline); err != nil {
			return nil, err
		}
	}
	return mongo.NewCursorFromDocuments(rows, nil, nil)
}

// insert generates an ObjectID when the document carries no _id, like the driver.
func (c *Collection) insert(document interface{}) (interface{}, error) {
	d, err := toM(document)
	if err != nil {
		return nil, err
	}
	if id, ok := d["_id"]; !ok || id == nil {
		d["_id"] = primitive.NewObjectID()
	}
	c.mu.Lock()
	c.docs = append(c.docs, d)
	c.mu.Unlock()
	return d["_id"], nil
}

func toM(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func asM(v interface{}) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case bson.D:
		return d.Map(), true
	}
	return nil, false
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

func apply(doc, update bson.M) error {
	for op, raw := range update {
		fields, ok := asM(raw)
		if !ok {
			return fmt.Errorf("storetest: %s expects a document", op)
		}
		switch op {
		case "$set":
			for k, v := range fields {
				doc[k] = v
			}
		case "$inc":
			for k, v := range fields {
				sum, err := addNumbers(doc[k], v)
				if err != nil {
					return fmt.Errorf("storetest: $inc %s: %w", k, err)
				}
				doc[k] = sum
			}
		default:
			return fmt.Errorf("storetest: unsupported update operator %s", op)
		}
	}
	return nil
}

var errNotNumeric = errors.New("not numeric")

func addNumbers(cur, delta interface{}) (interface{}, error) {
	d, ok := asInt64(delta)
	if !ok {
		return nil, errNotNumeric
	}
	if cur == nil {
		return delta, nil
	}
	c, ok := asInt64(cur)
	if !ok {
		return nil, errNotNumeric
	}
	if _, is32 := cur.(int32); is32 {
		return int32(c + d), nil
	}
	return c + d, nil
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// Store is a store.Store backed by in-memory collections. It records whether
// any collection was used after Close.
type Store struct {
	*store.Store

	Users    *Collection
	Brands   *Collection
	Garments *Collection
	Sales    *Collection

	mu            sync.Mutex
	disconnects   int
	closed        bool
	afterClose    []string
	disconnectErr error
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	s := &Store{}
	s.Users = s.newCollection(models.UsersCollection)
	s.Brands = s.newCollection(models.BrandsCollection)
	s.Garments = s.newCollection(models.GarmentsCollection)
	s.Sales = s.newCollection(models.SalesCollection)
	s.Store = store.New(s.Users, s.Brands, s.Garments, s.Sales, s.disconnect)
	return s
}

func (s *Store) newCollection(name string) *Collection {
	return &Collection{name: name, st: s, fail: map[string]error{}}
}

// FailDisconnect makes Close return err.
func (s *Store) FailDisconnect(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnectErr = err
}

// Disconnects reports how many times the underlying client was disconnected.
func (s *Store) Disconnects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnects
}

// OpsAfterClose lists "collection.op" for every call made after disconnect.
func (s *Store) OpsAfterClose() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.afterClose...)
}

func (s *Store) disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects++
	s.closed = true
	return s.disconnectErr
}

func (s *Store) touch(coll, op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.afterClose = append(s.afterClose, coll+"."+op)
	}
}
