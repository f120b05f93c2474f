package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shinyyama/student-realestate/internal/metrics"
	"github.com/shinyyama/student-realestate/internal/model"
	"github.com/shinyyama/student-realestate/internal/reqctx"
	"github.com/shinyyama/student-realestate/internal/repository"
	"github.com/shinyyama/student-realestate/internal/storage"
	"go.uber.org/zap"
)

const MsgContactMissingFields = "Missing required fields: name, email, university, and realEstateId are required"

type ContactInput struct {
	Name         string
	Email        string
	University   string
	RealEstateID string
}

type ContactService interface {
	Create(ctx context.Context, in ContactInput, images []storage.Upload) (*model.Contact, error)
	ListWithListing(ctx context.Context) ([]model.ContactWithListing, error)
	GetWithListing(ctx context.Context, id string) (*model.ContactWithListing, error)
	SetStatus(ctx context.Context, id string, status *bool) (*model.StatusChange, error)
	Delete(ctx context.Context, id string) (*model.Deletion, error)
}

type contactService struct {
	repo    repository.ContactRepository
	blobs   BlobStore
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewContactService(repo repository.ContactRepository, blobs BlobStore, log *zap.Logger, m *metrics.Metrics) ContactService {
	return &contactService{repo: repo, blobs: blobs, log: log, metrics: m, now: time.Now}
}

// Create stores an inquiry. The listing id is only checked for shape; it may reference
// a listing that does not exist.
func (s *contactService) Create(ctx context.Context, in ContactInput, images []storage.Upload) (*model.Contact, error) {
	if err := storage.Validate(images); err != nil {
		return nil, err
	}
	fields := model.NewContact{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		University:   strings.TrimSpace(in.University),
		RealEstateID: strings.TrimSpace(in.RealEstateID),
	}
	if fields.Name == "" || fields.Email == "" || fields.University == "" || fields.RealEstateID == "" {
		return nil, invalid(MsgContactMissingFields)
	}
	if len(fields.RealEstateID) != 24 {
		return nil, ErrInvalidID
	}

	exists, err := s.repo.Exists(ctx, fields.Email, fields.RealEstateID)
	if err != nil {
		return nil, err
	}
	if exists {
		s.metrics.DuplicateInquiry()
		return nil, ErrDuplicateInquiry
	}

	refs, err := s.blobs.Store(ctx, storage.KindStudent, images)
	if err != nil {
		return nil, err
	}

	now := stamp(s.now)
	contact := &model.Contact{
		Name:         fields.Name,
		Email:        fields.Email,
		University:   fields.University,
		RealEstateID: fields.RealEstateID,
		Images:       refs,
		Status:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		s.blobs.Remove(ctx, refs)
		if errors.Is(err, repository.ErrDuplicateKey) {
			// lost the race against a concurrent submission
			s.metrics.DuplicateInquiry()
			return nil, ErrDuplicateInquiry
		}
		s.log.Error("insert contact failed", zap.String("rid", reqctx.RID(ctx)), zap.Error(err))
		return nil, err
	}
	s.metrics.InquiryCreated()
	return contact, nil
}

func (s *contactService) ListWithListing(ctx context.Context) ([]model.ContactWithListing, error) {
	return s.repo.ListWithListing(ctx)
}

func (s *contactService) GetWithListing(ctx context.Context, id string) (*model.ContactWithListing, error) {
	oid, err := model.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	contact, err := s.repo.FindWithListing(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return contact, nil
}

func (s *contactService) SetStatus(ctx context.Context, id string, status *bool) (*model.StatusChange, error) {
	oid, err := model.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, invalid(MsgStatusNotBool)
	}
	at := stamp(s.now)
	if err := s.repo.UpdateStatus(ctx, oid, *status, at); err != nil {
		return nil, mapRepoErr(err)
	}
	return &model.StatusChange{ID: oid.Hex(), Status: *status, UpdatedAt: at}, nil
}

func (s *contactService) Delete(ctx context.Context, id string) (*model.Deletion, error) {
	oid, err := model.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	contact, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.blobs.Remove(ctx, contact.Images)
	if err := s.repo.Delete(ctx, oid); err != nil {
		return nil, mapRepoErr(err)
	}
	return &model.Deletion{ID: oid.Hex(), DeletedAt: stamp(s.now)}, nil
}
