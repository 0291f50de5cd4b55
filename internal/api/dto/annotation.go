package dto

import "time"

type NoteRequest struct {
	EntityKind string `json:"entity_kind"`
	EntityID   int64  `json:"entity_id"`
	Body       string `json:"body"`
}

type NoteResponse struct {
	ID         int64     `json:"id"`
	EntityKind string    `json:"entity_kind"`
	EntityID   int64     `json:"entity_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
}

type AttachmentResponse struct {
	ID          int64     `json:"id"`
	EntityKind  string    `json:"entity_kind"`
	EntityID    int64     `json:"entity_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	Description string    `json:"description,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type ListAttachmentsResponse struct {
	Attachments []AttachmentResponse `json:"attachments"`
}
