package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/tienda-ropa/internal/models"
	"github.com/harentsoaR/tienda-ropa/internal/pipelines"
)

// Values written and changed by one workflow run.
const (
	SampleUserName  = "Carlos Pérez"
	SampleUserEmail = "carlos@gmail.com"
	SampleUserPhone = "8888-9999"

	UpdatedPhone      = "8888-1234"
	StockDecrement    = 2
	DeletedBrandName  = "Puma"
	SoldQuantity      = 2
	FirstGarmentStock = 50
)

func sampleUser() models.User {
	return models.User{Name: SampleUserName, Email: SampleUserEmail, Phone: SampleUserPhone}
}

// sampleBrands lists the brands in insertion order. Only the first two are
// referenced by garments, so deleting the third leaves no dangling reference.
func sampleBrands() []interface{} {
	return []interface{}{
		models.Brand{Name: "Nike"},
		models.Brand{Name: "Adidas"},
		models.Brand{Name: DeletedBrandName},
	}
}

func sampleGarments(nikeID, adidasID primitive.ObjectID) []interface{} {
	return []interface{}{
		models.Garment{Name: "Camiseta Deportiva", BrandID: nikeID, Stock: FirstGarmentStock, Price: 20000},
		models.Garment{Name: "Pantalón Deportivo", BrandID: adidasID, Stock: 30, Price: 30000},
	}
}

func sampleSale(userID, garmentID primitive.ObjectID) models.Sale {
	return models.Sale{
		UserID: userID,
		Date:   pipelines.SampleSaleDate,
		Items: []models.LineItem{
			{GarmentID: garmentID, Quantity: SoldQuantity, UnitPrice: 20000},
		},
	}
}
