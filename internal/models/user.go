package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"nombre" json:"nombre"`
	Email string             `bson:"correo" json:"correo"`
	Phone string             `bson:"telefono" json:"telefono"` // Updated in place by the mutator
}
