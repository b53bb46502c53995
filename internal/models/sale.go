package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Sale struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"usuario_id" json:"usuarioId"`
	Date   time.Time          `bson:"fecha" json:"fecha"`
	Items  []LineItem         `bson:"detalles" json:"detalles"`
}

// LineItem is embedded in the sale document; there is no line-item collection.
type LineItem struct {
	GarmentID primitive.ObjectID `bson:"prenda_id" json:"prendaId"`
	Quantity  int                `bson:"cantidad" json:"cantidad"`
	UnitPrice int                `bson:"precio_unitario" json:"precioUnitario"`
}
