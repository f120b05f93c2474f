package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shinyyama/student-realestate/internal/db"
	"github.com/shinyyama/student-realestate/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	Exists(ctx context.Context, email, realEstateID string) (bool, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Contact, error)
	ListWithListing(ctx context.Context) ([]model.ContactWithListing, error)
	FindWithListing(ctx context.Context, id primitive.ObjectID) (*model.ContactWithListing, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status bool, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type contactRepository struct {
	store *db.Store
}

func NewContactRepository(store *db.Store) ContactRepository {
	return &contactRepository{store: store}
}

// Create returns ErrDuplicateKey when the (email, realEstateId) index rejects the insert.
func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	coll, err := r.store.Contacts()
	if err != nil {
		return err
	}
	res, err := coll.InsertOne(ctx, contact)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		contact.ID = oid
	}
	return nil
}

func (r *contactRepository) Exists(ctx context.Context, email, realEstateID string) (bool, error) {
	coll, err := r.store.Contacts()
	if err != nil {
		return false, err
	}
	err = coll.FindOne(ctx, bson.M{"email": email, "realEstateId": realEstateID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *contactRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Contact, error) {
	coll, err := r.store.Contacts()
	if err != nil {
		return nil, err
	}
	var contact model.Contact
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&contact); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) ListWithListing(ctx context.Context) ([]model.ContactWithListing, error) {
	coll, err := r.store.Contacts()
	if err != nil {
		return nil, err
	}
	cur, err := coll.Aggregate(ctx, withListingPipeline(nil))
	if err != nil {
		return nil, err
	}
	contacts := []model.ContactWithListing{}
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) FindWithListing(ctx context.Context, id primitive.ObjectID) (*model.ContactWithListing, error) {
	coll, err := r.store.Contacts()
	if err != nil {
		return nil, err
	}
	cur, err := coll.Aggregate(ctx, withListingPipeline(bson.D{{Key: "_id", Value: id}}))
	if err != nil {
		return nil, err
	}
	var contacts []model.ContactWithListing
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, ErrNotFound
	}
	return &contacts[0], nil
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status bool, at time.Time) error {
	coll, err := r.store.Contacts()
	if err != nil {
		return err
	}
	return updateStatus(ctx, coll, id, status, at)
}

func (r *contactRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	coll, err := r.store.Contacts()
	if err != nil {
		return err
	}
	return deleteByID(ctx, coll, id)
}

// withListingPipeline left-joins each contact with its listing under realEstateDetails.
// realEstateId is a string, so it is converted first; unconvertible ids join to null.
func withListingPipeline(match bson.D) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	return append(pipeline,
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "realEstateOid", Value: bson.D{{Key: "$convert", Value: bson.D{
				{Key: "input", Value: "$realEstateId"},
				{Key: "to", Value: "objectId"},
				{Key: "onError", Value: nil},
				{Key: "onNull", Value: nil},
			}}}},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: db.ListingsCollection},
			{Key: "localField", Value: "realEstateOid"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "realEstateDetails"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "realEstateDetails", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$realEstateDetails", 0}}},
				nil,
			}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "realEstateOid", Value: 0}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	)
}
