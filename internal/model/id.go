package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidID = errors.New("invalid id")

// ParseObjectID accepts only 24-character hex strings.
func ParseObjectID(s string) (primitive.ObjectID, error) {
	if len(s) != 24 {
		return primitive.NilObjectID, ErrInvalidID
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// StatusChange is returned by status updates instead of the full record.
type StatusChange struct {
	ID        string    `json:"id"`
	Status    bool      `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Deletion struct {
	ID        string    `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}
