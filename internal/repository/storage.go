package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/forwarding-portal/internal/model"
)

// Storage is the only path from the API to persisted users, packages and
// contacts.  Lookups that match nothing return ErrNotFound.
type Storage interface {
	GetUser(ctx context.Context, id uint64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, in model.NewUser) (model.User, error)

	GetPackagesByUserID(ctx context.Context, userID uint64) ([]model.Package, error)
	GetPackageByTrackingID(ctx context.Context, trackingID string) (model.Package, error)
	CreatePackage(ctx context.Context, in model.NewPackage) (model.Package, error)
	UpdatePackageStatus(ctx context.Context, trackingID string, status model.Status, at *time.Time) (model.Package, error)

	CreateContact(ctx context.Context, in model.NewContact) (model.Contact, error)
	GetContacts(ctx context.Context) ([]model.Contact, error)
}

// SQLStorage implements Storage on MySQL through the table repositories.
type SQLStorage struct {
	Users    *UserRepo
	Packages *PackageRepo
	Contacts *ContactRepo
}

var _ Storage = (*SQLStorage)(nil)

func NewSQLStorage(db *sql.DB) *SQLStorage {
	ids := NewIDGenerator()
	return &SQLStorage{
		Users:    NewUserRepo(db, ids),
		Packages: NewPackageRepo(db, ids),
		Contacts: NewContactRepo(db, ids),
	}
}

func (s *SQLStorage) GetUser(ctx context.Context, id uint64) (model.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *SQLStorage) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.Users.GetByEmail(ctx, email)
}

func (s *SQLStorage) CreateUser(ctx context.Context, in model.NewUser) (model.User, error) {
	return s.Users.Create(ctx, in)
}

func (s *SQLStorage) GetPackagesByUserID(ctx context.Context, userID uint64) ([]model.Package, error) {
	return s.Packages.ListByUser(ctx, userID)
}

func (s *SQLStorage) GetPackageByTrackingID(ctx context.Context, trackingID string) (model.Package, error) {
	return s.Packages.GetByTrackingID(ctx, trackingID)
}

func (s *SQLStorage) CreatePackage(ctx context.Context, in model.NewPackage) (model.Package, error) {
	return s.Packages.Create(ctx, in)
}

func (s *SQLStorage) UpdatePackageStatus(ctx context.Context, trackingID string, status model.Status, at *time.Time) (model.Package, error) {
	return s.Packages.UpdateStatus(ctx, trackingID, status, at)
}

func (s *SQLStorage) CreateContact(ctx context.Context, in model.NewContact) (model.Contact, error) {
	return s.Contacts.Create(ctx, in)
}

func (s *SQLStorage) GetContacts(ctx context.Context) ([]model.Contact, error) {
	return s.Contacts.List(ctx)
}
