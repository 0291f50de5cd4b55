package services

import (
	"context"
	"fmt"
	"io"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

// AttachNote creates a note on any attachable entity after verifying the
// target exists.
func AttachNote(
	ctx context.Context,
	n *domain.Note,
	notes ports.NoteRepository,
	checker ports.EntityChecker,
) error {
	n.Normalize()
	if err := n.Validate(); err != nil {
		return err
	}

	ok, err := checker.EntityExists(ctx, n.Entity)
	if err != nil {
		return fmt.Errorf("attach note: %w", err)
	}
	if !ok {
		return domain.FieldErrors{"entity_id": "Referenced entity does not exist."}
	}

	if err := notes.CreateNote(ctx, n); err != nil {
		return fmt.Errorf("attach note: %w", err)
	}
	return nil
}

// AttachFile stores the uploaded bytes and the attachment row. When the row
// insert fails the stored file is removed again.
func AttachFile(
	ctx context.Context,
	a *domain.Attachment,
	file io.Reader,
	attachments ports.AttachmentRepository,
	checker ports.EntityChecker,
	files ports.FileStore,
) error {
	ok, err := checker.EntityExists(ctx, a.Entity)
	if err != nil {
		return fmt.Errorf("attach file: %w", err)
	}
	if !ok {
		return domain.FieldErrors{"entity_id": "Referenced entity does not exist."}
	}

	path, size, err := files.Save(a.FileName, file)
	if err != nil {
		return fmt.Errorf("attach file: store bytes: %w", err)
	}
	a.StoragePath = path
	a.SizeBytes = size

	if err := a.Validate(); err != nil {
		if rmErr := files.Remove(path); rmErr != nil {
			return fmt.Errorf("attach file: remove rejected upload: %w", rmErr)
		}
		return err
	}

	if err := attachments.CreateAttachment(ctx, a); err != nil {
		if rmErr := files.Remove(path); rmErr != nil {
			return fmt.Errorf("attach file: remove orphaned upload: %w", rmErr)
		}
		return fmt.Errorf("attach file: %w", err)
	}
	return nil
}

// DeleteAttachment removes the attachment row and its stored file.
func DeleteAttachment(
	ctx context.Context,
	id int64,
	attachments ports.AttachmentRepository,
	files ports.FileStore,
) error {
	a, err := attachments.GetAttachment(ctx, id)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}

	if err := attachments.DeleteAttachment(ctx, id); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}

	if err := files.Remove(a.StoragePath); err != nil {
		return fmt.Errorf("delete attachment: remove file: %w", err)
	}
	return nil
}
