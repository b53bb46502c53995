package pipelines

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func lookup(from, local, foreign, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: local},
		{Key: "foreignField", Value: foreign},
		{Key: "as", Value: as},
	}}}
}

func unwind(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: path}}
}

func TestQuantitySoldByDatePipeline(t *testing.T) {
	want := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "fecha", Value: SampleSaleDate}}}},
		unwind("$detalles"),
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$detalles.prenda_id"},
			{Key: "totalVendidas", Value: bson.D{{Key: "$sum", Value: "$detalles.cantidad"}}},
		}}},
	}

	got := QuantitySoldByDate(SampleSaleDate).Pipeline

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pipeline mismatch (-want +got):\n%s", diff)
	}
}

func TestBrandsWithAtLeastOneSalePipeline(t *testing.T) {
	want := mongo.Pipeline{
		unwind("$detalles"),
		lookup("Prendas", "detalles.prenda_id", "_id", "prenda"),
		unwind("$prenda"),
		lookup("Marcas", "prenda.marca_id", "_id", "marca"),
		unwind("$marca"),
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$marca.nombre"}}}},
	}

	if diff := cmp.Diff(want, BrandsWithAtLeastOneSale().Pipeline); diff != "" {
		t.Fatalf("pipeline mismatch (-want +got):\n%s", diff)
	}
}

func TestGarmentsSoldAndStockPipeline(t *testing.T) {
	want := mongo.Pipeline{
		unwind("$detalles"),
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$detalles.prenda_id"},
			{Key: "totalVendidas", Value: bson.D{{Key: "$sum", Value: "$detalles.cantidad"}}},
		}}},
		lookup("Prendas", "_id", "_id", "prenda"),
		unwind("$prenda"),
		{{Key: "$project", Value: bson.D{
			{Key: "nombre", Value: "$prenda.nombre"},
			{Key: "totalVendidas", Value: 1},
			{Key: "stockRestante", Value: "$prenda.stock"},
		}}},
	}

	if diff := cmp.Diff(want, GarmentsSoldAndStock().Pipeline); diff != "" {
		t.Fatalf("pipeline mismatch (-want +got):\n%s", diff)
	}
}

func TestTopSellingBrandsPipeline(t *testing.T) {
	want := mongo.Pipeline{
		unwind("$detalles"),
		lookup("Prendas", "detalles.prenda_id", "_id", "prenda"),
		unwind("$prenda"),
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$prenda.marca_id"},
			{Key: "totalVendidas", Value: bson.D{{Key: "$sum", Value: "$detalles.cantidad"}}},
		}}},
		lookup("Marcas", "_id", "_id", "marca"),
		unwind("$marca"),
		{{Key: "$project", Value: bson.D{
			{Key: "nombreMarca", Value: "$marca.nombre"},
			{Key: "totalVendidas", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalVendidas", Value: -1}}}},
		{{Key: "$limit", Value: int64(5)}},
	}

	got, err := TopSellingBrands(MaxTopBrands)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got.Pipeline); diff != "" {
		t.Fatalf("pipeline mismatch (-want +got):\n%s", diff)
	}
}

func TestTopSellingBrandsRejectsLimitsOutsideRange(t *testing.T) {
	for _, n := range []int{-1, 0, MaxTopBrands + 1} {
		_, err := TopSellingBrands(n)
		assert.ErrorIs(t, err, ErrInvalidLimit, "n=%d", n)
	}
}

// Every lookup must be followed by an unwind of its output so that rows
// without a match disappear instead of carrying an empty array.
func TestJoinsDropUnmatchedRows(t *testing.T) {
	for _, r := range Catalog() {
		t.Run(r.Name, func(t *testing.T) {
			for i, stage := range r.Pipeline {
				if stage[0].Key != "$lookup" {
					continue
				}
				require.Less(t, i+1, len(r.Pipeline), "lookup is the last stage")

				as := stage[0].Value.(bson.D).Map()["as"]
				next := r.Pipeline[i+1]
				assert.Equal(t, "$unwind", next[0].Key)
				assert.Equal(t, "$"+as.(string), next[0].Value, "unwind must be a bare path with no preserveNullAndEmptyArrays")
			}
		})
	}
}

func TestCatalogOrder(t *testing.T) {
	var names []string
	for _, r := range Catalog() {
		names = append(names, r.Name)
		assert.NotEmpty(t, r.Title)
	}
	assert.Equal(t, []string{QuantityByDate, BrandsWithSales, GarmentStock, TopBrands}, names)
}

func TestByName(t *testing.T) {
	day := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	r, err := ByName(QuantityByDate, Params{Date: day})
	require.NoError(t, err)
	assert.Equal(t, day, r.Pipeline[0][0].Value.(bson.D)[0].Value)

	r, err = ByName(QuantityByDate, Params{})
	require.NoError(t, err)
	assert.Equal(t, SampleSaleDate, r.Pipeline[0][0].Value.(bson.D)[0].Value)

	r, err = ByName(TopBrands, Params{Limit: 2})
	require.NoError(t, err)
	last := r.Pipeline[len(r.Pipeline)-1]
	assert.Equal(t, bson.E{Key: "$limit", Value: int64(2)}, last[0])

	_, err = ByName(TopBrands, Params{Limit: 9})
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = ByName("revenue", Params{})
	assert.True(t, errors.Is(err, ErrUnknownReport))
}
