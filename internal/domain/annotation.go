package domain

import (
	"strings"
	"time"
)

// EntityKind tags the type half of a polymorphic (kind, id) reference.
// Notes and attachments can target any kind in this closed set.
type EntityKind string

const (
	KindCarrier   EntityKind = "carrier"
	KindContact   EntityKind = "contact"
	KindDriver    EntityKind = "driver"
	KindVehicle   EntityKind = "vehicle"
	KindAsset     EntityKind = "asset"
	KindLocation  EntityKind = "location"
	KindShipment  EntityKind = "shipment"
	KindGPSDevice EntityKind = "gps_device"
)

func ValidEntityKind(k EntityKind) bool {
	switch k {
	case KindCarrier, KindContact, KindDriver, KindVehicle,
		KindAsset, KindLocation, KindShipment, KindGPSDevice:
		return true
	}
	return false
}

// EntityRef points at one entity of any attachable kind.
type EntityRef struct {
	Kind EntityKind
	ID   int64
}

func (r EntityRef) Validate() error {
	errs := FieldErrors{}

	if !ValidEntityKind(r.Kind) {
		errs["entity_kind"] = "Unknown entity kind."
	}
	if r.ID <= 0 {
		errs["entity_id"] = "Entity ID must be a positive integer."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Note is a short free-form annotation attached to any entity.
type Note struct {
	ID        int64
	Entity    EntityRef
	Body      string
	CreatedAt time.Time
}

func (n *Note) Normalize() {
	n.Body = strings.TrimSpace(n.Body)
}

func (n *Note) Validate() error {
	errs := FieldErrors{}

	if err := n.Entity.Validate(); err != nil {
		var fe FieldErrors
		if asFieldErrors(err, &fe) {
			for k, v := range fe {
				errs[k] = v
			}
		}
	}
	if n.Body == "" {
		errs["body"] = "Body is required."
	}
	if len(n.Body) > 255 {
		errs["body"] = "Body must be 255 characters or fewer."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Attachment is an uploaded file linked to any entity. StoragePath is
// relative to the configured attachment directory.
type Attachment struct {
	ID          int64
	Entity      EntityRef
	FileName    string
	ContentType string
	SizeBytes   int64
	StoragePath string
	Description string
	UploadedAt  time.Time
}

func (a *Attachment) Validate() error {
	errs := FieldErrors{}

	if err := a.Entity.Validate(); err != nil {
		var fe FieldErrors
		if asFieldErrors(err, &fe) {
			for k, v := range fe {
				errs[k] = v
			}
		}
	}
	if strings.TrimSpace(a.FileName) == "" {
		errs["file"] = "A file is required."
	}
	if a.SizeBytes <= 0 {
		errs["file"] = "Uploaded file is empty."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func asFieldErrors(err error, out *FieldErrors) bool {
	fe, ok := err.(FieldErrors)
	if ok {
		*out = fe
	}
	return ok
}
