package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Listing struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserEmail     string             `bson:"userEmail" json:"userEmail"`
	Address       string             `bson:"address" json:"address"`
	PropertyType  string             `bson:"propertyType" json:"propertyType"`
	Bedrooms      *int               `bson:"bedrooms" json:"bedrooms"`
	Bathrooms     *int               `bson:"bathrooms" json:"bathrooms"`
	SquareFootage *int               `bson:"squareFootage" json:"squareFootage"`
	Price         float64            `bson:"price" json:"price"`
	Description   string             `bson:"description" json:"description"`
	Images        []string           `bson:"images" json:"images"`
	Status        bool               `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewListing is the validated input for creating a Listing.
type NewListing struct {
	UserEmail     string
	Address       string
	PropertyType  string
	Bedrooms      *int
	Bathrooms     *int
	SquareFootage *int
	Price         float64
	Description   string
}
