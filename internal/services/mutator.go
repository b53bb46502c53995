package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/harentsoaR/tienda-ropa/internal/models"
	"github.com/harentsoaR/tienda-ropa/internal/platform/logger"
	"github.com/harentsoaR/tienda-ropa/internal/store"
)

type Mutator struct {
	store *store.Store
	log   *logger.Logger
}

func NewMutator(s *store.Store, log *logger.Logger) *Mutator {
	return &Mutator{store: s, log: log}
}

// Apply updates the user's phone, decrements the first garment's stock and
// deletes the Puma brand concurrently. It waits for all three and returns the
// first error; a failure does not cancel the others.
func (m *Mutator) Apply(ctx context.Context, seeded Seeded) error {
	var g errgroup.Group

	g.Go(func() error {
		matched, err := store.UpdateDocument(ctx, m.store.Users,
			bson.M{"_id": seeded.UserID},
			bson.M{"$set": bson.M{"telefono": UpdatedPhone}},
		)
		if err != nil {
			return fmt.Errorf("update phone: %w", err)
		}
		m.log.Debug("phone updated", "matched", matched)
		return nil
	})

	g.Go(func() error {
		matched, err := store.UpdateDocument(ctx, m.store.Garments,
			bson.M{"_id": seeded.GarmentID},
			bson.M{"$inc": bson.M{"stock": -StockDecrement}},
		)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		m.log.Debug("stock decremented", "matched", matched)
		return nil
	})

	g.Go(func() error {
		deleted, err := store.DeleteDocument(ctx, m.store.Brands, bson.M{"nombre": DeletedBrandName})
		if err != nil {
			return fmt.Errorf("delete brand: %w", err)
		}
		m.log.Debug("brand deleted", "collection", models.BrandsCollection, "deleted", deleted)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	m.log.Info("user and stock updated, brand deleted")
	return nil
}
