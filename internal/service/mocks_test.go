package service

import (
	"context"
	"time"

	"github.com/shinyyama/student-realestate/internal/model"
	"github.com/shinyyama/student-realestate/internal/storage"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	return m.Called(ctx, listing).Error(0)
}
func (m *MockListingRepository) List(ctx context.Context, activeOnly bool) ([]model.Listing, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Listing), args.Error(1)
}
func (m *MockListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}
func (m *MockListingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status bool, at time.Time) error {
	return m.Called(ctx, id, status, at).Error(0)
}
func (m *MockListingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockListingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockContactRepository struct{ mock.Mock }

func (m *MockContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return m.Called(ctx, contact).Error(0)
}
func (m *MockContactRepository) Exists(ctx context.Context, email, realEstateID string) (bool, error) {
	args := m.Called(ctx, email, realEstateID)
	return args.Bool(0), args.Error(1)
}
func (m *MockContactRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}
func (m *MockContactRepository) ListWithListing(ctx context.Context) ([]model.ContactWithListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContactWithListing), args.Error(1)
}
func (m *MockContactRepository) FindWithListing(ctx context.Context, id primitive.ObjectID) (*model.ContactWithListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContactWithListing), args.Error(1)
}
func (m *MockContactRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status bool, at time.Time) error {
	return m.Called(ctx, id, status, at).Error(0)
}
func (m *MockContactRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type MockBlobStore struct{ mock.Mock }

func (m *MockBlobStore) Store(ctx context.Context, kind string, uploads []storage.Upload) ([]string, error) {
	args := m.Called(ctx, kind, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockBlobStore) Remove(ctx context.Context, refs []string) {
	m.Called(ctx, refs)
}
