package repository

import (
	"context"
	"strings"
	"time"

	"github.com/shinyyama/student-realestate/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AdminRepository interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
	Upsert(ctx context.Context, email string) error
}

type adminRepository struct {
	store *db.Store
}

func NewAdminRepository(store *db.Store) AdminRepository {
	return &adminRepository{store: store}
}

func (r *adminRepository) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}
	coll, err := r.store.Admins()
	if err != nil {
		return false, err
	}
	n, err := coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *adminRepository) Upsert(ctx context.Context, email string) error {
	coll, err := r.store.Admins()
	if err != nil {
		return err
	}
	_, err = coll.UpdateOne(ctx,
		bson.M{"email": normalizeEmail(email)},
		bson.M{"$setOnInsert": bson.M{"createdAt": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
