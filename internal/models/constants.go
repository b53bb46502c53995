package models

const (
	// DefaultDatabase is used when MONGO_DATABASE is not set.
	DefaultDatabase = "TiendaRopa"

	UsersCollection    = "Usuarios"
	BrandsCollection   = "Marcas"
	GarmentsCollection = "Prendas"
	SalesCollection    = "Ventas"
)
