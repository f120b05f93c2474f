package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shinyyama/student-realestate/internal/metrics"
	"github.com/shinyyama/student-realestate/internal/model"
	"github.com/shinyyama/student-realestate/internal/reqctx"
	"github.com/shinyyama/student-realestate/internal/repository"
	"github.com/shinyyama/student-realestate/internal/storage"
	"go.uber.org/zap"
)

const MsgListingMissingFields = "Missing required fields: userEmail, address, propertyType, and price are required"

// ListingInput holds the raw form values of a listing submission.
type ListingInput struct {
	UserEmail     string
	Address       string
	PropertyType  string
	Bedrooms      string
	Bathrooms     string
	SquareFootage string
	Price         string
	Description   string
}

type ListingService interface {
	Create(ctx context.Context, in ListingInput, images []storage.Upload) (*model.Listing, error)
	ListAll(ctx context.Context) ([]model.Listing, error)
	ListActive(ctx context.Context) ([]model.Listing, error)
	Get(ctx context.Context, id string) (*model.Listing, error)
	SetStatus(ctx context.Context, id string, status *bool) (*model.StatusChange, error)
	Delete(ctx context.Context, id string) (*model.Deletion, error)
}

type listingService struct {
	repo    repository.ListingRepository
	blobs   BlobStore
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewListingService(repo repository.ListingRepository, blobs BlobStore, log *zap.Logger, m *metrics.Metrics) ListingService {
	return &listingService{repo: repo, blobs: blobs, log: log, metrics: m, now: time.Now}
}

func (s *listingService) Create(ctx context.Context, in ListingInput, images []storage.Upload) (*model.Listing, error) {
	if err := storage.Validate(images); err != nil {
		return nil, err
	}
	fields, err := parseListingInput(in)
	if err != nil {
		return nil, err
	}

	refs, err := s.blobs.Store(ctx, storage.KindListing, images)
	if err != nil {
		return nil, err
	}

	now := stamp(s.now)
	listing := &model.Listing{
		UserEmail:     fields.UserEmail,
		Address:       fields.Address,
		PropertyType:  fields.PropertyType,
		Bedrooms:      fields.Bedrooms,
		Bathrooms:     fields.Bathrooms,
		SquareFootage: fields.SquareFootage,
		Price:         fields.Price,
		Description:   fields.Description,
		Images:        refs,
		Status:        false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		s.log.Error("insert listing failed", zap.String("rid", reqctx.RID(ctx)), zap.Error(err))
		s.blobs.Remove(ctx, refs)
		return nil, err
	}
	s.metrics.ListingCreated()
	return listing, nil
}

func parseListingInput(in ListingInput) (*model.NewListing, error) {
	out := &model.NewListing{
		UserEmail:    strings.TrimSpace(in.UserEmail),
		Address:      strings.TrimSpace(in.Address),
		PropertyType: strings.TrimSpace(in.PropertyType),
		Description:  in.Description,
	}
	price := strings.TrimSpace(in.Price)
	if out.UserEmail == "" || out.Address == "" || out.PropertyType == "" || price == "" {
		return nil, invalid(MsgListingMissingFields)
	}

	p, err := strconv.ParseFloat(price, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return nil, invalid("price must be a number")
	}
	out.Price = p

	if out.Bedrooms, err = optionalCount("bedrooms", in.Bedrooms); err != nil {
		return nil, err
	}
	if out.Bathrooms, err = optionalCount("bathrooms", in.Bathrooms); err != nil {
		return nil, err
	}
	if out.SquareFootage, err = optionalCount("squareFootage", in.SquareFootage); err != nil {
		return nil, err
	}
	return out, nil
}

// optionalCount parses a non-negative integer; blank input yields nil.
func optionalCount(name, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, invalid(name + " must be a non-negative integer")
	}
	return &n, nil
}

func (s *listingService) ListAll(ctx context.Context) ([]model.Listing, error) {
	return s.repo.List(ctx, false)
}

func (s *listingService) ListActive(ctx context.Context) ([]model.Listing, error) {
	return s.repo.List(ctx, true)
}

func (s *listingService) Get(ctx context.Context, id string) (*model.Listing, error) {
	oid, err := model.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	listing, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return listing, nil
}

func (s *listingService) SetStatus(ctx context.Context, id string, status *bool) (*model.StatusChange, error) {
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

// Delete removes the listing's images before the record itself.
func (s *listingService) Delete(ctx context.Context, id string) (*model.Deletion, error) {
	oid, err := model.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	listing, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.blobs.Remove(ctx, listing.Images)
	if err := s.repo.Delete(ctx, oid); err != nil {
		return nil, mapRepoErr(err)
	}
	return &model.Deletion{ID: oid.Hex(), DeletedAt: stamp(s.now)}, nil
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
