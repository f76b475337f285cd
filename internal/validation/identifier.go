package validation

import (
	"productlist/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseIdentifier checks that id has the shape of a store identifier (a
// 24-character hexadecimal ObjectID) and returns its canonical lower-case form.
// Callers must not touch the repository when it returns an error.
func ParseIdentifier(id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", model.ErrInvalidIdentifier
	}
	return oid.Hex(), nil
}

// NewIdentifier returns a fresh store identifier.
func NewIdentifier() string {
	return primitive.NewObjectID().Hex()
}
