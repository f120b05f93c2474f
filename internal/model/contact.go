package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is an inquiry from a student about a Listing. RealEstateID is stored as a
// plain hex string, not an ObjectID.
type Contact struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	University   string             `bson:"university" json:"university"`
	RealEstateID string             `bson:"realEstateId" json:"realEstateId"`
	Images       []string           `bson:"images" json:"images"`
	Status       bool               `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ContactWithListing is a Contact joined with the listing it references.
// RealEstateDetails is nil when that listing no longer exists.
type ContactWithListing struct {
	Contact           `bson:",inline"`
	RealEstateDetails *Listing `bson:"realEstateDetails" json:"realEstateDetails"`
}

type NewContact struct {
	Name         string
	Email        string
	University   string
	RealEstateID string
}
