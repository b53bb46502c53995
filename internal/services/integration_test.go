package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/tienda-ropa/internal/config"
	"github.com/harentsoaR/tienda-ropa/internal/models"
	"github.com/harentsoaR/tienda-ropa/internal/pipelines"
	"github.com/harentsoaR/tienda-ropa/internal/platform/logger"
	"github.com/harentsoaR/tienda-ropa/internal/store"
)

func connectTestStore(t *testing.T) (*store.Store, *mongo.Database) {
	t.Helper()
	cfg := config.Load().Mongo
	if cfg.URI == "" {
		t.Skip("MONGODB_URI not set")
	}
	cfg.Database = "tienda_workflow_test"

	st, err := store.Connect(context.Background(), cfg)
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	db := st.Users.(*mongo.Collection).Database()
	require.NoError(t, db.Drop(context.Background()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = st.Close(context.Background())
	})
	return st, db
}

func TestIntegrationSeedMutateReport(t *testing.T) {
	st, db := connectTestStore(t)
	ctx := context.Background()
	log := logger.Nop()

	seeded, err := NewSeeder(st, log).Seed(ctx)
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.Collection(models.UsersCollection).FindOne(ctx, bson.M{"_id": seeded.UserID}).Decode(&user))
	assert.Equal(t, models.User{ID: seeded.UserID, Name: SampleUserName, Email: SampleUserEmail, Phone: SampleUserPhone}, user)

	require.NoError(t, NewMutator(st, log).Apply(ctx, seeded))

	require.NoError(t, db.Collection(models.UsersCollection).FindOne(ctx, bson.M{"_id": seeded.UserID}).Decode(&user))
	assert.Equal(t, UpdatedPhone, user.Phone)

	var garment models.Garment
	require.NoError(t, db.Collection(models.GarmentsCollection).FindOne(ctx, bson.M{"_id": seeded.GarmentID}).Decode(&garment))
	assert.Equal(t, 48, garment.Stock)

	brands := db.Collection(models.BrandsCollection)
	n, err := brands.CountDocuments(ctx, bson.M{"nombre": DeletedBrandName})
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = brands.CountDocuments(ctx, bson.M{"nombre": bson.M{"$in": bson.A{"Nike", "Adidas"}}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	r := NewReporter(st.Sales, &bytes.Buffer{}, log)

	rows, err := r.Run(ctx, pipelines.QuantitySoldByDate(pipelines.SampleSaleDate))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, seeded.GarmentID, rows[0]["_id"])
	assert.EqualValues(t, SoldQuantity, rows[0]["totalVendidas"])

	rows, err = r.Run(ctx, pipelines.BrandsWithAtLeastOneSale())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nike", rows[0]["_id"])

	rows, err = r.Run(ctx, pipelines.GarmentsSoldAndStock())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Camiseta Deportiva", rows[0]["nombre"])
	assert.EqualValues(t, 2, rows[0]["totalVendidas"])
	assert.EqualValues(t, 48, rows[0]["stockRestante"])

	top, err := pipelines.TopSellingBrands(pipelines.MaxTopBrands)
	require.NoError(t, err)
	rows, err = r.Run(ctx, top)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nike", rows[0]["nombreMarca"])
	assert.EqualValues(t, 2, rows[0]["totalVendidas"])
}

// A sale of a garment whose brand no longer exists contributes nothing to
// the brand reports and produces no null-brand rows.
func TestIntegrationDanglingBrandIsDropped(t *testing.T) {
	st, _ := connectTestStore(t)
	ctx := context.Background()
	log := logger.Nop()

	seeded, err := NewSeeder(st, log).Seed(ctx)
	require.NoError(t, err)

	pumaID := seeded.BrandIDs[2]
	ids, err := store.InsertDocuments(ctx, st.Garments, models.Garment{Name: "Gorra", BrandID: pumaID, Stock: 10, Price: 9000})
	require.NoError(t, err)
	_, err = store.InsertDocuments(ctx, st.Sales, models.Sale{
		UserID: seeded.UserID,
		Date:   pipelines.SampleSaleDate,
		Items:  []models.LineItem{{GarmentID: ids[0], Quantity: 7, UnitPrice: 9000}},
	})
	require.NoError(t, err)
	_, err = store.DeleteDocument(ctx, st.Brands, bson.M{"nombre": DeletedBrandName})
	require.NoError(t, err)

	r := NewReporter(st.Sales, &bytes.Buffer{}, log)

	rows, err := r.Run(ctx, pipelines.BrandsWithAtLeastOneSale())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nike", rows[0]["_id"])

	top, _ := pipelines.TopSellingBrands(pipelines.MaxTopBrands)
	rows, err = r.Run(ctx, top)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nike", rows[0]["nombreMarca"])
	assert.EqualValues(t, 2, rows[0]["totalVendidas"])
}

func TestIntegrationTopBrandsNeverExceedsLimit(t *testing.T) {
	st, _ := connectTestStore(t)
	ctx := context.Background()
	log := logger.Nop()

	user, err := store.InsertDocuments(ctx, st.Users, models.User{Name: "Ana"})
	require.NoError(t, err)
	for i := 0; i < 7; i++ {
		brand, err := store.InsertDocuments(ctx, st.Brands, models.Brand{Name: string(rune('A' + i))})
		require.NoError(t, err)
		garment, err := store.InsertDocuments(ctx, st.Garments, models.Garment{Name: "G", BrandID: brand[0], Stock: 100})
		require.NoError(t, err)
		_, err = store.InsertDocuments(ctx, st.Sales, models.Sale{
			UserID: user[0],
			Date:   pipelines.SampleSaleDate,
			Items:  []models.LineItem{{GarmentID: garment[0], Quantity: i + 1}},
		})
		require.NoError(t, err)
	}

	top, _ := pipelines.TopSellingBrands(pipelines.MaxTopBrands)
	rows, err := NewReporter(st.Sales, &bytes.Buffer{}, log).Run(ctx, top)

	require.NoError(t, err)
	require.Len(t, rows, pipelines.MaxTopBrands)
	assert.Equal(t, "G", rows[0]["nombreMarca"])
	assert.EqualValues(t, 7, rows[0]["totalVendidas"])
}
