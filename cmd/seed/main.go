package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/shinyyama/student-realestate/internal/config"
	"github.com/shinyyama/student-realestate/internal/db"
	"github.com/shinyyama/student-realestate/internal/model"
	"github.com/shinyyama/student-realestate/internal/repository"
)

type seedListing struct {
	Address      string
	PropertyType string
	Bedrooms     int
	Bathrooms    int
	SquareFeet   int
	Price        float64
	Active       bool
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		if !errors.Is(err, db.ErrInquiryIndex) {
			return fmt.Errorf("indexes: %w", err)
		}
		log.Printf("warning: %v", err)
	}

	if email := strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")); email != "" {
		if err := repository.NewAdminRepository(store).Upsert(ctx, email); err != nil {
			return fmt.Errorf("upsert admin: %w", err)
		}
		log.Printf("admin %s ready", email)
	}

	listings := repository.NewListingRepository(store)
	canSeed, err := shouldSeed(ctx, listings)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("listings already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	owner := os.Getenv("SEED_OWNER_EMAIL")
	if owner == "" {
		owner = "landlord@example.com"
	}
	seeds := buildSeedListings()
	for _, s := range seeds {
		if err := listings.Create(ctx, toListing(s, owner)); err != nil {
			return fmt.Errorf("insert listing %q: %w", s.Address, err)
		}
	}
	log.Printf("seeded %d listings", len(seeds))
	return nil
}

func buildSeedListings() []seedListing {
	type street struct {
		Name  string
		Price float64
	}
	streets := []street{
		{Name: "College Ave", Price: 950},
		{Name: "University Blvd", Price: 1100},
		{Name: "Campus Dr", Price: 780},
		{Name: "Library Ln", Price: 650},
		{Name: "Stadium Way", Price: 1250},
	}
	types := []string{"apartment", "studio", "house", "shared room"}

	var out []seedListing
	for i, st := range streets {
		for j, pt := range types {
			beds := j + 1
			if pt == "studio" || pt == "shared room" {
				beds = 1
			}
			out = append(out, seedListing{
				Address:      fmt.Sprintf("%d %s", 100+i*10+j, st.Name),
				PropertyType: pt,
				Bedrooms:     beds,
				Bathrooms:    1 + beds/3,
				SquareFeet:   350 + beds*220,
				Price:        st.Price + float64(beds*150),
				Active:       (i+j)%2 == 0,
			})
		}
	}
	return out
}

func toListing(s seedListing, owner string) *model.Listing {
	now := time.Now().UTC()
	beds, baths, sqft := s.Bedrooms, s.Bathrooms, s.SquareFeet
	return &model.Listing{
		UserEmail:     owner,
		Address:       s.Address,
		PropertyType:  s.PropertyType,
		Bedrooms:      &beds,
		Bathrooms:     &baths,
		SquareFootage: &sqft,
		Price:         s.Price,
		Description:   fmt.Sprintf("%s near campus, %d bed / %d bath. Utilities negotiable.", s.PropertyType, beds, baths),
		Images:        []string{},
		Status:        s.Active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func shouldSeed(ctx context.Context, listings repository.ListingRepository) (bool, error) {
	n, err := listings.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count listings: %w", err)
	}
	if n == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}
