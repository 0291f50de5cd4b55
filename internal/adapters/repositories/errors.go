package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"freight-tracking-service/internal/domain"
)

const uniqueViolation = "23505"

// Constraint names from InitSchema, mapped to the field the caller should
// see the conflict attributed to.
var conflictFields = map[string]struct{ field, message string }{
	"uq_carriers_mc_number":          {"mc_number", "This MC number already exists."},
	"uq_contacts_email":              {"email", "This email already exists."},
	"uq_primary_contact_per_carrier": {"is_primary", "This carrier already has a primary contact."},
	"uq_drivers_email":               {"email", "This email already exists."},
	"uq_vehicles_plate":              {"plate_number", "This plate number already exists."},
	"uq_assets_sku":                  {"sku", "This SKU already exists."},
	"uq_assets_slug":                 {"slug", "This slug already exists."},
	"uq_gps_devices_device_id":       {"device_id", "This device ID already exists."},
}

// translateConflict rewrites Postgres unique violations into the domain's
// conflict errors. Other errors pass through untouched.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}

	if m, ok := conflictFields[pgErr.ConstraintName]; ok {
		return &domain.ConflictError{Field: m.field, Message: m.message}
	}

	switch pgErr.ConstraintName {
	case "uq_status_event_per_timestamp", "uq_tracking_event_per_timestamp":
		return domain.ErrDuplicateEvent
	}

	return err
}
