package ports

import (
	"context"
	"freight-tracking-service/internal/domain"
)

// Port: existence check behind polymorphic (kind, id) references. Concrete
// implementations hold the registry mapping each entity kind to its table.
type EntityChecker interface {
	EntityExists(ctx context.Context, ref domain.EntityRef) (bool, error)
}

// Port: boundary for persisting notes attached to arbitrary entities.
type NoteRepository interface {
	CreateNote(ctx context.Context, n *domain.Note) error
	ListNotesFor(ctx context.Context, ref domain.EntityRef) ([]*domain.Note, error)
	GetNote(ctx context.Context, id int64) (*domain.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

// Port: boundary for persisting attachment metadata. File bytes live on
// disk; rows store the relative storage path.
type AttachmentRepository interface {
	CreateAttachment(ctx context.Context, a *domain.Attachment) error
	ListAttachmentsFor(ctx context.Context, ref domain.EntityRef) ([]*domain.Attachment, error)
	GetAttachment(ctx context.Context, id int64) (*domain.Attachment, error)
	DeleteAttachment(ctx context.Context, id int64) error
}
