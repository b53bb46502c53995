package pipelines

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/tienda-ropa/internal/models"
)

const (
	QuantityByDate  = "quantity-by-date"
	BrandsWithSales = "brands-with-sales"
	GarmentStock    = "garment-stock"
	TopBrands       = "top-brands"

	// MaxTopBrands bounds the top-brands report.
	MaxTopBrands = 5
)

var (
	ErrUnknownReport = errors.New("unknown report")
	ErrInvalidLimit  = fmt.Errorf("limit must be between 1 and %d", MaxTopBrands)
)

// SampleSaleDate is the date of the seeded sale and the default for the
// quantity-by-date report.
var SampleSaleDate = time.Date(2024, time.June, 25, 0, 0, 0, 0, time.UTC)

// Report is a titled pipeline run against the sales collection.
type Report struct {
	Name     string
	Title    string
	Pipeline mongo.Pipeline
}

// Field paths inside a sale and the rows derived from it.
const (
	lineItems     = "detalles"
	itemGarment   = "detalles.prenda_id"
	itemQuantity  = "detalles.cantidad"
	totalSold     = "totalVendidas"
	garmentAlias  = "prenda"
	brandAlias    = "marca"
	garmentBrand  = "prenda.marca_id"
	brandNamePath = "marca.nombre"
)

// QuantitySoldByDate: units sold per garment on the given day.
func QuantitySoldByDate(date time.Time) Report {
	return Report{
		Name:  QuantityByDate,
		Title: "Query 1: quantity sold by date",
		Pipeline: Build(
			Match{Filter: bson.D{{Key: "fecha", Value: date}}},
			Unwind{Path: lineItems},
			Group{KeyPath: itemGarment, Accumulators: []Accumulator{Sum(totalSold, itemQuantity)}},
		),
	}
}

// BrandsWithAtLeastOneSale: distinct names of brands that sold anything.
func BrandsWithAtLeastOneSale() Report {
	stages := []Stage{Unwind{Path: lineItems}}
	stages = append(stages, Join(models.GarmentsCollection, itemGarment, "_id", garmentAlias)...)
	stages = append(stages, Join(models.BrandsCollection, garmentBrand, "_id", brandAlias)...)
	stages = append(stages, Group{KeyPath: brandNamePath})
	return Report{
		Name:     BrandsWithSales,
		Title:    "Query 2: brands with at least one sale",
		Pipeline: Build(stages...),
	}
}

// GarmentsSoldAndStock: units sold and current stock per garment.
func GarmentsSoldAndStock() Report {
	stages := []Stage{
		Unwind{Path: lineItems},
		Group{KeyPath: itemGarment, Accumulators: []Accumulator{Sum(totalSold, itemQuantity)}},
	}
	stages = append(stages, Join(models.GarmentsCollection, "_id", "_id", garmentAlias)...)
	stages = append(stages, Project{Fields: []Field{
		{Name: "nombre", Source: "prenda.nombre"},
		{Name: totalSold},
		{Name: "stockRestante", Source: "prenda.stock"},
	}})
	return Report{
		Name:     GarmentStock,
		Title:    "Query 3: garments sold and remaining stock",
		Pipeline: Build(stages...),
	}
}

// TopSellingBrands: the n brands with the most units sold, best first.
func TopSellingBrands(n int) (Report, error) {
	if n < 1 || n > MaxTopBrands {
		return Report{}, ErrInvalidLimit
	}
	stages := []Stage{Unwind{Path: lineItems}}
	stages = append(stages, Join(models.GarmentsCollection, itemGarment, "_id", garmentAlias)...)
	stages = append(stages, Group{KeyPath: garmentBrand, Accumulators: []Accumulator{Sum(totalSold, itemQuantity)}})
	stages = append(stages, Join(models.BrandsCollection, "_id", "_id", brandAlias)...)
	stages = append(stages,
		Project{Fields: []Field{
			{Name: "nombreMarca", Source: brandNamePath},
			{Name: totalSold},
		}},
		Sort{Field: totalSold, Descending: true},
		Limit{N: int64(n)},
	)
	return Report{
		Name:     TopBrands,
		Title:    fmt.Sprintf("Query 4: top %d best-selling brands", n),
		Pipeline: Build(stages...),
	}, nil
}

// Catalog returns the four reports in the order they are printed.
func Catalog() []Report {
	top, _ := TopSellingBrands(MaxTopBrands)
	return []Report{
		QuantitySoldByDate(SampleSaleDate),
		BrandsWithAtLeastOneSale(),
		GarmentsSoldAndStock(),
		top,
	}
}

// Params tunes the parameterised reports. Zero values select the defaults.
type Params struct {
	Date  time.Time
	Limit int
}

// ByName builds a catalog report by name.
func ByName(name string, p Params) (Report, error) {
	switch name {
	case QuantityByDate:
		date := p.Date
		if date.IsZero() {
			date = SampleSaleDate
		}
		return QuantitySoldByDate(date), nil
	case BrandsWithSales:
		return BrandsWithAtLeastOneSale(), nil
	case GarmentStock:
		return GarmentsSoldAndStock(), nil
	case TopBrands:
		limit := p.Limit
		if limit == 0 {
			limit = MaxTopBrands
		}
		return TopSellingBrands(limit)
	}
	return Report{}, fmt.Errorf("%w: %q", ErrUnknownReport, name)
}
