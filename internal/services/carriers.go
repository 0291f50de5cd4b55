package services

import (
	"context"
	"fmt"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

// DeleteCarrier removes a carrier, refusing with a DeleteBlockedError that
// carries the dependent counts while any contacts, drivers, or vehicles
// still reference it.
func DeleteCarrier(ctx context.Context, id int64, repo ports.CarrierRepository) error {
	if _, err := repo.GetCarrier(ctx, id); err != nil {
		return fmt.Errorf("delete carrier: %w", err)
	}

	counts, err := repo.CountDependents(ctx, id)
	if err != nil {
		return fmt.Errorf("delete carrier: count dependents: %w", err)
	}

	if counts.Total() > 0 {
		return &domain.DeleteBlockedError{
			Resource: "carrier",
			Counts: map[string]int{
				"contacts": counts.Contacts,
				"drivers":  counts.Drivers,
				"vehicles": counts.Vehicles,
			},
		}
	}

	if err := repo.DeleteCarrier(ctx, id); err != nil {
		return fmt.Errorf("delete carrier: %w", err)
	}
	return nil
}

// SaveContact validates and persists a carrier contact, enforcing the
// one-primary-per-carrier rule at the validation level (the store enforces
// it again with a partial unique index). A zero contact ID means create.
func SaveContact(ctx context.Context, c *domain.CarrierContact, contacts ports.ContactRepository, carriers ports.CarrierRepository) error {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return err
	}

	if _, err := carriers.GetCarrier(ctx, c.CarrierID); err != nil {
		if err == domain.ErrNotFound {
			return domain.FieldErrors{"carrier_id": "Carrier does not exist."}
		}
		return fmt.Errorf("save contact: %w", err)
	}

	if c.IsPrimary {
		taken, err := contacts.HasPrimaryContact(ctx, c.CarrierID, c.ID)
		if err != nil {
			return fmt.Errorf("save contact: check primary: %w", err)
		}
		if taken {
			return domain.FieldErrors{"is_primary": "This carrier already has a primary contact."}
		}
	}

	if c.ID == 0 {
		if err := contacts.CreateContact(ctx, c); err != nil {
			return fmt.Errorf("save contact: %w", err)
		}
		return nil
	}
	if err := contacts.UpdateContact(ctx, c); err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

// DeleteContact removes a contact. Deleting a carrier's primary contact is
// refused: a replacement must be promoted first.
func DeleteContact(ctx context.Context, id int64, contacts ports.ContactRepository) error {
	c, err := contacts.GetContact(ctx, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	if c.IsPrimary {
		return &domain.DeleteBlockedError{
			Resource: "primary contact",
			Counts:   map[string]int{"primary": 1},
		}
	}

	if err := contacts.DeleteContact(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
