package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ListingsCollection = "realestate"
	ContactsCollection = "contacts"
	UsersCollection    = "users"
	AdminsCollection   = "admins"

	InquiryIndexName = "email_realEstateId_unique"
)

var ErrNotConnected = errors.New("database not connected")

// Store is the process-wide database handle. The zero value is a valid, disconnected store.
type Store struct {
	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens the client and pings the primary once.
func Connect(ctx context.Context, uri, name string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Store{client: client, db: client.Database(name)}, nil
}

func (s *Store) collection(name string) (*mongo.Collection, error) {
	if s == nil {
		return nil, ErrNotConnected
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrNotConnected
	}
	return s.db.Collection(name), nil
}

func (s *Store) Listings() (*mongo.Collection, error) { return s.collection(ListingsCollection) }
func (s *Store) Contacts() (*mongo.Collection, error) { return s.collection(ContactsCollection) }
func (s *Store) Users() (*mongo.Collection, error)    { return s.collection(UsersCollection) }
func (s *Store) Admins() (*mongo.Collection, error)   { return s.collection(AdminsCollection) }

// Ping reports whether the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return ErrNotConnected
	}
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()
	if client == nil {
		return ErrNotConnected
	}
	return client.Ping(ctx, readpref.Primary())
}

// ErrInquiryIndex reports that the unique {email, realEstateId} index could not be built,
// typically because the collection already holds duplicate inquiries.
var ErrInquiryIndex = errors.New("unique inquiry index not created")

// EnsureIndexes creates the indexes the services rely on. It is idempotent.
// The unique inquiry index is built last; its failure wraps ErrInquiryIndex and
// leaves the other indexes in place.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	contacts, err := s.Contacts()
	if err != nil {
		return err
	}
	listings, err := s.Listings()
	if err != nil {
		return err
	}

	_, err = listings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("status"),
	})
	if err != nil {
		return fmt.Errorf("realestate indexes: %w", err)
	}
	_, err = contacts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	if err != nil {
		return fmt.Errorf("contacts indexes: %w", err)
	}

	_, err = contacts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}, {Key: "realEstateId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(InquiryIndexName),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInquiryIndex, err)
	}
	return nil
}

// Close disconnects the client. Accessors return ErrNotConnected afterwards.
func (s *Store) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	client := s.client
	s.client, s.db = nil, nil
	s.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
