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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	List(ctx context.Context, activeOnly bool) ([]model.Listing, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status bool, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type listingRepository struct {
	store *db.Store
}

func NewListingRepository(store *db.Store) ListingRepository {
	return &listingRepository{store: store}
}

func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	coll, err := r.store.Listings()
	if err != nil {
		return err
	}
	res, err := coll.InsertOne(ctx, listing)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		listing.ID = oid
	}
	return nil
}

func (r *listingRepository) List(ctx context.Context, activeOnly bool) ([]model.Listing, error) {
	coll, err := r.store.Listings()
	if err != nil {
		return nil, err
	}
	filter := bson.M{}
	if activeOnly {
		filter["status"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	listings := []model.Listing{}
	if err := cur.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	coll, err := r.store.Listings()
	if err != nil {
		return nil, err
	}
	var listing model.Listing
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status bool, at time.Time) error {
	coll, err := r.store.Listings()
	if err != nil {
		return err
	}
	return updateStatus(ctx, coll, id, status, at)
}

func (r *listingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	coll, err := r.store.Listings()
	if err != nil {
		return err
	}
	return deleteByID(ctx, coll, id)
}

func (r *listingRepository) Count(ctx context.Context) (int64, error) {
	coll, err := r.store.Listings()
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.M{})
}

func updateStatus(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, status bool, at time.Time) error {
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
