package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/harentsoaR/tienda-ropa/internal/config"
	"github.com/harentsoaR/tienda-ropa/internal/models"
)

var ErrMissingURI = errors.New("MONGODB_URI is not set")

// Collection is the part of *mongo.Collection this program uses.
type Collection interface {
	Name() string
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// Store owns the client and the four collection handles. It is created once
// by the caller and passed to everything that touches the database.
type Store struct {
	Users    Collection
	Brands   Collection
	Garments Collection
	Sales    Collection

	ping       func(ctx context.Context) error
	disconnect func(ctx context.Context) error
	closeOnce  sync.Once
	closeErr   error
}

// Connect opens the client, checks the primary is reachable, and resolves
// the collections in the order users, brands, garments, sales.
func Connect(ctx context.Context, cfg config.Mongo) (*Store, error) {
	if cfg.URI == "" {
		return nil, ErrMissingURI
	}
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = models.DefaultDatabase
	}
	db := client.Database(dbName)

	s := New(
		db.Collection(models.UsersCollection),
		db.Collection(models.BrandsCollection),
		db.Collection(models.GarmentsCollection),
		db.Collection(models.SalesCollection),
		client.Disconnect,
	)
	s.ping = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	return s, nil
}

// New assembles a Store from already resolved collections. disconnect is
// called by Close and may be nil.
func New(users, brands, garments, sales Collection, disconnect func(ctx context.Context) error) *Store {
	return &Store{
		Users:      users,
		Brands:     brands,
		Garments:   garments,
		Sales:      sales,
		disconnect: disconnect,
	}
}

// Ping reports whether the server is reachable. Stores built with New always
// report healthy.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close disconnects the client. Only the first call does any work; later
// calls return the first call's result.
func (s *Store) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		if s.disconnect != nil {
			s.closeErr = s.disconnect(ctx)
		}
	})
	return s.closeErr
}
