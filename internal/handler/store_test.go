package handler_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/forwarding-portal/internal/model"
	"github.com/iliyamo/forwarding-portal/internal/repository"
)

// memStore is an in-memory repository.Storage with the same error
// contract as the SQL implementation.
type memStore struct {
	mu       sync.Mutex
	now      time.Time
	users    map[uint64]model.User
	packages map[string]model.Package
	contacts []model.Contact
	nextID   uint64
}

func newMemStore() *memStore {
	return &memStore{
		now:      time.Date(2026, 10, 17, 14, 30, 15, 0, time.UTC),
		users:    map[uint64]model.User{},
		packages: map[string]model.Package{},
	}
}

func (s *memStore) id() uint64 { s.nextID++; return s.nextID }

func (s *memStore) GetUser(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memStore) CreateUser(_ context.Context, in model.NewUser) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == in.Email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	id := s.id()
	u := model.User{
		ID:           id,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: in.PasswordHash,
		MailboxID:    fmt.Sprintf("#EV%05d", 10000+id),
		MemberSince:  s.now,
		Plan:         in.Plan,
	}
	s.users[id] = u
	return u, nil
}

func (s *memStore) GetPackagesByUserID(_ context.Context, userID uint64) ([]model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Package{}
	for _, p := range s.packages {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) GetPackageByTrackingID(_ context.Context, trackingID string) (model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.packages[trackingID]
	if !ok {
		return model.Package{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *memStore) CreatePackage(_ context.Context, in model.NewPackage) (model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[in.UserID]; !ok {
		return model.Package{}, repository.ErrNotFound
	}
	id := s.id()
	now := s.now
	p := model.Package{
		ID:            id,
		TrackingID:    fmt.Sprintf("#EV%s-%03d", now.Format("20060102"), id),
		UserID:        in.UserID,
		Description:   in.Description,
		Weight:        in.Weight,
		Status:        model.StatusReceivedUS,
		EstimatedDate: in.EstimatedDate,
		ReceivedDate:  &now,
		Cost:          in.Cost,
	}
	s.packages[p.TrackingID] = p
	return p, nil
}

func (s *memStore) UpdatePackageStatus(_ context.Context, trackingID string, status model.Status, at *time.Time) (model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !status.Valid() {
		return model.Package{}, repository.ErrInvalidStatus
	}
	p, ok := s.packages[trackingID]
	if !ok {
		return model.Package{}, repository.ErrNotFound
	}
	if !model.CanTransition(p.Status, status) {
		return model.Package{}, fmt.Errorf("%w: %s -> %s", repository.ErrIllegalTransition, p.Status, status)
	}
	when := s.now
	if at != nil {
		when = at.UTC()
	}
	switch status {
	case model.StatusTransit:
		p.TransitDate = &when
	case model.StatusArrived:
		p.ArrivedDate = &when
	case model.StatusReady:
		p.ReadyDate = &when
	case model.StatusDelivered:
		p.DeliveredDate = &when
	}
	p.Status = status
	s.packages[trackingID] = p
	return p, nil
}

func (s *memStore) CreateContact(_ context.Context, in model.NewContact) (model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.Contact{
		ID:            s.id(),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Phone:         in.Phone,
		Type:          in.Type,
		PackageNumber: in.PackageNumber,
		Message:       in.Message,
		CreatedAt:     s.now,
	}
	s.contacts = append(s.contacts, c)
	return c, nil
}

func (s *memStore) GetContacts(context.Context) ([]model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Contact{}, s.contacts...), nil
}

var _ repository.Storage = (*memStore)(nil)
