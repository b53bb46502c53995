package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/tienda-ropa/internal/platform/logger"
	"github.com/harentsoaR/tienda-ropa/internal/store"
)

// Seeded holds the ids captured while seeding that later steps refer to.
type Seeded struct {
	UserID    primitive.ObjectID
	BrandIDs  []primitive.ObjectID
	GarmentID primitive.ObjectID
	SaleID    primitive.ObjectID
}

type Seeder struct {
	store *store.Store
	log   *logger.Logger
}

func NewSeeder(s *store.Store, log *logger.Logger) *Seeder {
	return &Seeder{store: s, log: log}
}

// Seed inserts the sample user, brands, garments and sale, one insert at a
// time. Running it twice inserts everything twice.
func (s *Seeder) Seed(ctx context.Context) (Seeded, error) {
	var out Seeded

	ids, err := store.InsertDocuments(ctx, s.store.Users, sampleUser())
	if err != nil {
		return out, fmt.Errorf("insert user: %w", err)
	}
	out.UserID = ids[0]
	s.log.Info("user inserted", "user_id", out.UserID.Hex())

	ids, err = store.InsertDocuments(ctx, s.store.Brands, sampleBrands()...)
	if err != nil {
		return out, fmt.Errorf("insert brands: %w", err)
	}
	out.BrandIDs = ids
	s.log.Info("brands inserted", "count", len(ids))

	ids, err = store.InsertDocuments(ctx, s.store.Garments, sampleGarments(out.BrandIDs[0], out.BrandIDs[1])...)
	if err != nil {
		return out, fmt.Errorf("insert garments: %w", err)
	}
	out.GarmentID = ids[0]
	s.log.Info("garments inserted", "count", len(ids))

	ids, err = store.InsertDocuments(ctx, s.store.Sales, sampleSale(out.UserID, out.GarmentID))
	if err != nil {
		return out, fmt.Errorf("insert sale: %w", err)
	}
	out.SaleID = ids[0]
	s.log.Info("sale inserted", "sale_id", out.SaleID.Hex())

	return out, nil
}
