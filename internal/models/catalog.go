package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Brand struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"nombre" json:"nombre"`
}

// Garment references its brand by id only. Deleting the brand leaves the
// reference dangling.
type Garment struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"nombre" json:"nombre"`
	BrandID primitive.ObjectID `bson:"marca_id" json:"marcaId"`
	Stock   int                `bson:"stock" json:"stock"`
	Price   int                `bson:"precio" json:"precio"`
}
