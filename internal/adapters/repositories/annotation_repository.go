package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-tracking-service/internal/domain"
)

// entityTables is the registry behind polymorphic (kind, id) references:
// each attachable entity kind maps to the table its ids live in.
var entityTables = map[domain.EntityKind]string{
	domain.KindCarrier:   "carriers",
	domain.KindContact:   "carrier_contacts",
	domain.KindDriver:    "drivers",
	domain.KindVehicle:   "vehicles",
	domain.KindAsset:     "assets",
	domain.KindLocation:  "locations",
	domain.KindShipment:  "shipments",
	domain.KindGPSDevice: "gps_devices",
}

// Postgres-backed implementation of the NoteRepository, AttachmentRepository,
// and EntityChecker ports.
type PostgresAnnotationRepository struct{ DB *sql.DB }

func NewPostgresAnnotationRepository(db *sql.DB) *PostgresAnnotationRepository {
	return &PostgresAnnotationRepository{DB: db}
}

func (r *PostgresAnnotationRepository) EntityExists(ctx context.Context, ref domain.EntityRef) (bool, error) {
	table, ok := entityTables[ref.Kind]
	if !ok {
		return false, fmt.Errorf("entity exists: unknown kind %q", ref.Kind)
	}

	// Table names come from the registry above, never from input.
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1);`, table)
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, ref.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("entity exists %s id=%d: %w", ref.Kind, ref.ID, err)
	}
	return exists, nil
}

func (r *PostgresAnnotationRepository) CreateNote(ctx context.Context, n *domain.Note) error {
	query := `
	INSERT INTO notes (entity_kind, entity_id, body)
	VALUES ($1, $2, $3)
	RETURNING id, created_at;
	`
	err := r.DB.QueryRowContext(ctx, query, n.Entity.Kind, n.Entity.ID, n.Body).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *PostgresAnnotationRepository) ListNotesFor(ctx context.Context, ref domain.EntityRef) ([]*domain.Note, error) {
	query := `
	SELECT id, entity_kind, entity_id, body, created_at
	FROM notes
	WHERE entity_kind = $1 AND entity_id = $2
	ORDER BY created_at, id;
	`
	rows, err := r.DB.QueryContext(ctx, query, ref.Kind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list notes for %s id=%d: %w", ref.Kind, ref.ID, err)
	}
	defer rows.Close()

	notes := make([]*domain.Note, 0, 8)
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.Entity.Kind, &n.Entity.ID, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("list notes: scan row: %w", err)
		}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: row iteration: %w", err)
	}

	return notes, nil
}

func (r *PostgresAnnotationRepository) GetNote(ctx context.Context, id int64) (*domain.Note, error) {
	query := `
	SELECT id, entity_kind, entity_id, body, created_at
	FROM notes
	WHERE id = $1;
	`
	var n domain.Note
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&n.ID, &n.Entity.Kind, &n.Entity.ID, &n.Body, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get note id=%d: %w", id, err)
	}
	return &n, nil
}

func (r *PostgresAnnotationRepository) DeleteNote(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete note id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const attachmentColumns = `
	id, entity_kind, entity_id, file_name, content_type, size_bytes,
	storage_path, description, uploaded_at`

func scanAttachment(row interface{ Scan(...any) error }) (*domain.Attachment, error) {
	var a domain.Attachment
	err := row.Scan(
		&a.ID, &a.Entity.Kind, &a.Entity.ID, &a.FileName, &a.ContentType,
		&a.SizeBytes, &a.StoragePath, &a.Description, &a.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAnnotationRepository) CreateAttachment(ctx context.Context, a *domain.Attachment) error {
	query := `
	INSERT INTO attachments (entity_kind, entity_id, file_name, content_type, size_bytes, storage_path, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, uploaded_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.Entity.Kind, a.Entity.ID, a.FileName, a.ContentType,
		a.SizeBytes, a.StoragePath, a.Description,
	).Scan(&a.ID, &a.UploadedAt)
	if err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	return nil
}

func (r *PostgresAnnotationRepository) ListAttachmentsFor(ctx context.Context, ref domain.EntityRef) ([]*domain.Attachment, error) {
	query := `SELECT` + attachmentColumns + `
	FROM attachments
	WHERE entity_kind = $1 AND entity_id = $2
	ORDER BY uploaded_at, id;
	`
	rows, err := r.DB.QueryContext(ctx, query, ref.Kind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list attachments for %s id=%d: %w", ref.Kind, ref.ID, err)
	}
	defer rows.Close()

	attachments := make([]*domain.Attachment, 0, 8)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("list attachments: scan row: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attachments: row iteration: %w", err)
	}

	return attachments, nil
}

func (r *PostgresAnnotationRepository) GetAttachment(ctx context.Context, id int64) (*domain.Attachment, error) {
	query := `SELECT` + attachmentColumns + `
	FROM attachments
	WHERE id = $1;
	`
	a, err := scanAttachment(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get attachment id=%d: %w", id, err)
	}
	return a, nil
}

func (r *PostgresAnnotationRepository) DeleteAttachment(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete attachment id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete attachment id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
