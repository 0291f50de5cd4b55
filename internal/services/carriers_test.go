package services

import (
	"context"
	"errors"
	"testing"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

type fakeCarrierRepo struct {
	carriers   map[int64]*domain.Carrier
	dependents map[int64]ports.DependentCounts
	deleted    []int64
}

func newFakeCarrierRepo(carriers ...*domain.Carrier) *fakeCarrierRepo {
	repo := &fakeCarrierRepo{
		carriers:   make(map[int64]*domain.Carrier),
		dependents: make(map[int64]ports.DependentCounts),
	}
	for _, c := range carriers {
		repo.carriers[c.ID] = c
	}
	return repo
}

func (f *fakeCarrierRepo) CreateCarrier(_ context.Context, c *domain.Carrier) error {
	f.carriers[c.ID] = c
	return nil
}

func (f *fakeCarrierRepo) ListCarriers(context.Context) ([]*domain.Carrier, error) {
	out := make([]*domain.Carrier, 0, len(f.carriers))
	for _, c := range f.carriers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCarrierRepo) GetCarrier(_ context.Context, id int64) (*domain.Carrier, error) {
	c, ok := f.carriers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCarrierRepo) UpdateCarrier(_ context.Context, c *domain.Carrier) error {
	f.carriers[c.ID] = c
	return nil
}

func (f *fakeCarrierRepo) DeleteCarrier(_ context.Context, id int64) error {
	delete(f.carriers, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCarrierRepo) CountDependents(_ context.Context, carrierID int64) (ports.DependentCounts, error) {
	return f.dependents[carrierID], nil
}

type fakeContactRepo struct {
	contacts map[int64]*domain.CarrierContact
	nextID   int64
}

func newFakeContactRepo(contacts ...*domain.CarrierContact) *fakeContactRepo {
	repo := &fakeContactRepo{contacts: make(map[int64]*domain.CarrierContact)}
	for _, c := range contacts {
		repo.contacts[c.ID] = c
		if c.ID > repo.nextID {
			repo.nextID = c.ID
		}
	}
	return repo
}

func (f *fakeContactRepo) CreateContact(_ context.Context, c *domain.CarrierContact) error {
	f.nextID++
	c.ID = f.nextID
	f.contacts[c.ID] = c
	return nil
}

func (f *fakeContactRepo) ListContacts(context.Context) ([]*domain.CarrierContact, error) {
	out := make([]*domain.CarrierContact, 0, len(f.contacts))
	for _, c := range f.contacts {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeContactRepo) GetContact(_ context.Context, id int64) (*domain.CarrierContact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeContactRepo) UpdateContact(_ context.Context, c *domain.CarrierContact) error {
	f.contacts[c.ID] = c
	return nil
}

func (f *fakeContactRepo) DeleteContact(_ context.Context, id int64) error {
	delete(f.contacts, id)
	return nil
}

func (f *fakeContactRepo) HasPrimaryContact(_ context.Context, carrierID, excludeID int64) (bool, error) {
	for _, c := range f.contacts {
		if c.CarrierID == carrierID && c.IsPrimary && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func TestDeleteCarrierBlockedByDependents(t *testing.T) {
	repo := newFakeCarrierRepo(&domain.Carrier{ID: 1, Name: "Sunline", MCNumber: "MC104233"})
	repo.dependents[1] = ports.DependentCounts{Contacts: 2, Drivers: 1}

	err := DeleteCarrier(context.Background(), 1, repo)

	var blocked *domain.DeleteBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("err = %v, want DeleteBlockedError", err)
	}
	if blocked.Counts["contacts"] != 2 || blocked.Counts["drivers"] != 1 || blocked.Counts["vehicles"] != 0 {
		t.Errorf("counts = %v, want contacts=2 drivers=1 vehicles=0", blocked.Counts)
	}
	if len(repo.deleted) != 0 {
		t.Error("carrier was deleted despite dependents")
	}
}

func TestDeleteCarrierWithoutDependents(t *testing.T) {
	repo := newFakeCarrierRepo(&domain.Carrier{ID: 1, Name: "Sunline", MCNumber: "MC104233"})

	if err := DeleteCarrier(context.Background(), 1, repo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Error("carrier was not deleted")
	}
}

func TestSaveContactSecondPrimaryRefused(t *testing.T) {
	carriers := newFakeCarrierRepo(&domain.Carrier{ID: 1, Name: "Sunline", MCNumber: "MC104233"})
	contacts := newFakeContactRepo(&domain.CarrierContact{
		ID: 1, CarrierID: 1, FirstName: "Dana", LastName: "Ortiz",
		Email: "dana@sunline.example", Role: domain.RoleDispatch, IsPrimary: true,
	})

	err := SaveContact(context.Background(), &domain.CarrierContact{
		CarrierID: 1,
		FirstName: "Lee",
		LastName:  "Moran",
		Email:     "lee@sunline.example",
		IsPrimary: true,
	}, contacts, carriers)

	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FieldErrors", err)
	}
	if _, ok := fe["is_primary"]; !ok {
		t.Errorf("expected is_primary error, got %v", fe)
	}
}

func TestSaveContactUpdatingPrimaryKeepsIt(t *testing.T) {
	carriers := newFakeCarrierRepo(&domain.Carrier{ID: 1, Name: "Sunline", MCNumber: "MC104233"})
	existing := &domain.CarrierContact{
		ID: 1, CarrierID: 1, FirstName: "Dana", LastName: "Ortiz",
		Email: "dana@sunline.example", Role: domain.RoleDispatch, IsPrimary: true,
	}
	contacts := newFakeContactRepo(existing)

	// updating the primary contact itself must not trip the primary check
	updated := *existing
	updated.PhoneNumber = "555-123-4567"
	if err := SaveContact(context.Background(), &updated, contacts, carriers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := contacts.contacts[1].PhoneNumber; got != "5551234567" {
		t.Errorf("phone = %q, want normalized 5551234567", got)
	}
}

func TestSaveContactDefaultsRole(t *testing.T) {
	carriers := newFakeCarrierRepo(&domain.Carrier{ID: 1, Name: "Sunline", MCNumber: "MC104233"})
	contacts := newFakeContactRepo()

	c := &domain.CarrierContact{
		CarrierID: 1,
		FirstName: "Lee",
		LastName:  "Moran",
		Email:     "Lee@Sunline.Example",
	}
	if err := SaveContact(context.Background(), c, contacts, carriers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Role != domain.RoleDispatch {
		t.Errorf("role = %s, want DISPATCH default", c.Role)
	}
	if c.Email != "lee@sunline.example" {
		t.Errorf("email = %q, want lower-cased", c.Email)
	}
}

func TestSaveContactUnknownCarrier(t *testing.T) {
	carriers := newFakeCarrierRepo()
	contacts := newFakeContactRepo()

	err := SaveContact(context.Background(), &domain.CarrierContact{
		CarrierID: 42,
		FirstName: "Lee",
		LastName:  "Moran",
		Email:     "lee@sunline.example",
	}, contacts, carriers)

	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FieldErrors", err)
	}
	if _, ok := fe["carrier_id"]; !ok {
		t.Errorf("expected carrier_id error, got %v", fe)
	}
}

func TestDeleteContactPrimaryRefused(t *testing.T) {
	contacts := newFakeContactRepo(&domain.CarrierContact{
		ID: 1, CarrierID: 1, FirstName: "Dana", LastName: "Ortiz",
		Email: "dana@sunline.example", Role: domain.RoleDispatch, IsPrimary: true,
	})

	err := DeleteContact(context.Background(), 1, contacts)

	var blocked *domain.DeleteBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("err = %v, want DeleteBlockedError", err)
	}
	if _, still := contacts.contacts[1]; !still {
		t.Error("primary contact was deleted")
	}
}
