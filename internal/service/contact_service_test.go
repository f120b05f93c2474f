package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shinyyama/student-realestate/internal/model"
	"github.com/shinyyama/student-realestate/internal/repository"
	"github.com/shinyyama/student-realestate/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newContactSvc(repo *MockContactRepository, blobs *MockBlobStore) *contactService {
	s := NewContactService(repo, blobs, zap.NewNop(), nil).(*contactService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func validContactInput() ContactInput {
	return ContactInput{
		Name:         "Ana Lima",
		Email:        "ana@uni.edu",
		University:   "State University",
		RealEstateID: primitive.NewObjectID().Hex(),
	}
}

func TestContactCreate(t *testing.T) {
	repo := new(MockContactRepository)
	blobs := new(MockBlobStore)
	svc := newContactSvc(repo, blobs)
	ctx := context.Background()
	in := validContactInput()
	refs := []string{"/uploads/students/images-1-id.png"}

	repo.On("Exists", ctx, in.Email, in.RealEstateID).Return(false, nil)
	blobs.On("Store", ctx, storage.KindStudent, mock.Anything).Return(refs, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*model.Contact")).Return(nil)

	contact, err := svc.Create(ctx, in, []storage.Upload{pngUpload("id.png")})
	require.NoError(t, err)
	assert.Equal(t, in.RealEstateID, contact.RealEstateID)
	assert.Equal(t, refs, contact.Images)
	assert.False(t, contact.Status)
	assert.Equal(t, fixedNow, contact.CreatedAt)
	assert.Equal(t, fixedNow, contact.UpdatedAt)
	repo.AssertExpectations(t)
}

func TestContactCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ContactInput)
		wantErr error
	}{
		{"missing name", func(in *ContactInput) { in.Name = "" }, ErrValidation},
		{"missing email", func(in *ContactInput) { in.Email = "" }, ErrValidation},
		{"missing university", func(in *ContactInput) { in.University = " " }, ErrValidation},
		{"missing listing", func(in *ContactInput) { in.RealEstateID = "" }, ErrValidation},
		{"short listing id", func(in *ContactInput) { in.RealEstateID = "abc" }, ErrInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockContactRepository)
			svc := newContactSvc(repo, new(MockBlobStore))
			in := validContactInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in, nil)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestContactCreateAcceptsDanglingListingID(t *testing.T) {
	repo := new(MockContactRepository)
	blobs := new(MockBlobStore)
	svc := newContactSvc(repo, blobs)
	ctx := context.Background()
	in := validContactInput()
	in.RealEstateID = "xxxxxxxxxxxxxxxxxxxxxxxx"

	repo.On("Exists", ctx, in.Email, in.RealEstateID).Return(false, nil)
	blobs.On("Store", ctx, storage.KindStudent, mock.Anything).Return([]string{}, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	_, err := svc.Create(ctx, in, nil)
	assert.NoError(t, err)
}

func TestContactCreateDuplicate(t *testing.T) {
	repo := new(MockContactRepository)
	blobs := new(MockBlobStore)
	svc := newContactSvc(repo, blobs)
	ctx := context.Background()
	in := validContactInput()

	repo.On("Exists", ctx, in.Email, in.RealEstateID).Return(true, nil)

	_, err := svc.Create(ctx, in, []storage.Upload{pngUpload("id.png")})
	assert.ErrorIs(t, err, ErrDuplicateInquiry)
	blobs.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactCreateDuplicateRace(t *testing.T) {
	repo := new(MockContactRepository)
	blobs := new(MockBlobStore)
	svc := newContactSvc(repo, blobs)
	ctx := context.Background()
	in := validContactInput()
	refs := []string{"/uploads/students/a.png"}

	repo.On("Exists", ctx, in.Email, in.RealEstateID).Return(false, nil)
	blobs.On("Store", ctx, storage.KindStudent, mock.Anything).Return(refs, nil)
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateKey)
	blobs.On("Remove", ctx, refs).Return()

	_, err := svc.Create(ctx, in, []storage.Upload{pngUpload("a.png")})
	assert.ErrorIs(t, err, ErrDuplicateInquiry)
	blobs.AssertExpectations(t)
}

func TestContactCreateStoreFailure(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newContactSvc(repo, new(MockBlobStore))
	ctx := context.Background()
	in := validContactInput()
	dbErr := errors.New("server selection timeout")

	repo.On("Exists", ctx, in.Email, in.RealEstateID).Return(false, dbErr)

	_, err := svc.Create(ctx, in, nil)
	assert.ErrorIs(t, err, dbErr)
}

func TestContactGetWithListing(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newContactSvc(repo, new(MockBlobStore))
	ctx := context.Background()
	id := primitive.NewObjectID()
	missing := primitive.NewObjectID()
	joined := &model.ContactWithListing{Contact: model.Contact{ID: id}}

	repo.On("FindWithListing", ctx, id).Return(joined, nil)
	repo.On("FindWithListing", ctx, missing).Return(nil, repository.ErrNotFound)

	got, err := svc.GetWithListing(ctx, id.Hex())
	require.NoError(t, err)
	assert.Nil(t, got.RealEstateDetails)

	_, err = svc.GetWithListing(ctx, missing.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetWithListing(ctx, "contacts")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestContactList(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newContactSvc(repo, new(MockBlobStore))
	ctx := context.Background()

	repo.On("ListWithListing", ctx).Return([]model.ContactWithListing{{}, {}}, nil)

	got, err := svc.ListWithListing(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestContactSetStatus(t *testing.T) {
	repo := new(MockContactRepository)
	svc := newContactSvc(repo, new(MockBlobStore))
	ctx := context.Background()
	id := primitive.NewObjectID()
	off := false

	repo.On("UpdateStatus", ctx, id, false, fixedNow).Return(nil)

	change, err := svc.SetStatus(ctx, id.Hex(), &off)
	require.NoError(t, err)
	assert.False(t, change.Status)
	assert.Equal(t, id.Hex(), change.ID)

	_, err = svc.SetStatus(ctx, id.Hex(), nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContactDeleteCascades(t *testing.T) {
	repo := new(MockContactRepository)
	blobs := new(MockBlobStore)
	svc := newContactSvc(repo, blobs)
	ctx := context.Background()
	id := primitive.NewObjectID()
	images := []string{"/uploads/students/a.png"}

	repo.On("FindByID", ctx, id).Return(&model.Contact{ID: id, Images: images}, nil)
	blobs.On("Remove", ctx, images).Return()
	repo.On("Delete", ctx, id).Return(nil)

	del, err := svc.Delete(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), del.ID)
	repo.AssertExpectations(t)
	blobs.AssertExpectations(t)

	missing := primitive.NewObjectID()
	repo.On("FindByID", ctx, missing).Return(nil, repository.ErrNotFound)
	_, err = svc.Delete(ctx, missing.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContactTimestampsSurviveStorage(t *testing.T) {
	repo := new(MockContactRepository)
	blobs := new(MockBlobStore)
	svc := newContactSvc(repo, blobs)
	svc.now = func() time.Time { return fixedNow.Add(123456789 * time.Nanosecond) }
	ctx := context.Background()
	in := validContactInput()

	repo.On("Exists", ctx, in.Email, in.RealEstateID).Return(false, nil)
	blobs.On("Store", ctx, storage.KindStudent, mock.Anything).Return([]string{}, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	contact, err := svc.Create(ctx, in, nil)
	require.NoError(t, err)

	raw, err := bson.Marshal(contact)
	require.NoError(t, err)
	var stored model.Contact
	require.NoError(t, bson.Unmarshal(raw, &stored))

	assert.Equal(t, contact.CreatedAt.Format(time.RFC3339Nano), stored.CreatedAt.UTC().Format(time.RFC3339Nano))
	assert.Equal(t, contact.UpdatedAt.Format(time.RFC3339Nano), stored.UpdatedAt.UTC().Format(time.RFC3339Nano))
	assert.Equal(t, fixedNow.Add(123*time.Millisecond), contact.CreatedAt)
}
