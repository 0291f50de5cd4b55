package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"freight-tracking-service/internal/api/dto"
	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
	"freight-tracking-service/internal/services"
)

const maxUploadBytes = 25 << 20

// NoteHandler exposes free-form notes attached to any entity kind.
type NoteHandler struct {
	Notes   ports.NoteRepository
	Checker ports.EntityChecker
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n := &domain.Note{
		Entity: domain.EntityRef{Kind: domain.EntityKind(req.EntityKind), ID: req.EntityID},
		Body:   req.Body,
	}
	if err := services.AttachNote(r.Context(), n, h.Notes, h.Checker); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, noteResponse(n))
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRefFromQuery(w, r)
	if !ok {
		return
	}

	notes, err := h.Notes.ListNotesFor(r.Context(), ref)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListNotesResponse{Notes: make([]dto.NoteResponse, 0, len(notes))}
	for _, n := range notes {
		res.Notes = append(res.Notes, noteResponse(n))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.Notes.GetNote(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := h.Notes.DeleteNote(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachmentHandler exposes file uploads attached to any entity kind. Bytes
// live in the file store; rows keep the metadata.
type AttachmentHandler struct {
	Attachments ports.AttachmentRepository
	Checker     ports.EntityChecker
	Files       ports.FileStore
}

func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	kind := r.FormValue("entity_kind")
	entityID, err := strconv.ParseInt(r.FormValue("entity_id"), 10, 64)
	if err != nil {
		writeDomainError(w, r, domain.FieldErrors{"entity_id": "Entity ID must be a positive integer."})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDomainError(w, r, domain.FieldErrors{"file": "A file is required."})
		return
	}
	defer file.Close()

	a := &domain.Attachment{
		Entity:      domain.EntityRef{Kind: domain.EntityKind(kind), ID: entityID},
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Description: r.FormValue("description"),
	}
	if err := services.AttachFile(r.Context(), a, file, h.Attachments, h.Checker, h.Files); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, attachmentResponse(a))
}

func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRefFromQuery(w, r)
	if !ok {
		return
	}

	attachments, err := h.Attachments.ListAttachmentsFor(r.Context(), ref)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListAttachmentsResponse{Attachments: make([]dto.AttachmentResponse, 0, len(attachments))}
	for _, a := range attachments {
		res.Attachments = append(res.Attachments, attachmentResponse(a))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Download streams the stored bytes with the original file name and content
// type.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	a, err := h.Attachments.GetAttachment(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	f, err := h.Files.Open(a.StoragePath)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	defer f.Close()

	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.FileName))
	w.Header().Set("Content-Length", strconv.FormatInt(a.SizeBytes, 10))
	if _, err := io.Copy(w, f); err != nil {
		log.Printf("attachment stream failed: id=%d err=%v", id, err)
	}
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := services.DeleteAttachment(r.Context(), id, h.Attachments, h.Files); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// entityRefFromQuery reads and validates the ?entity_kind=&entity_id= pair,
// writing the 400 response on failure.
func entityRefFromQuery(w http.ResponseWriter, r *http.Request) (domain.EntityRef, bool) {
	q := r.URL.Query()

	entityID, err := strconv.ParseInt(q.Get("entity_id"), 10, 64)
	if err != nil {
		writeDomainError(w, r, domain.FieldErrors{"entity_id": "Entity ID must be a positive integer."})
		return domain.EntityRef{}, false
	}

	ref := domain.EntityRef{Kind: domain.EntityKind(q.Get("entity_kind")), ID: entityID}
	if err := ref.Validate(); err != nil {
		writeDomainError(w, r, err)
		return domain.EntityRef{}, false
	}
	return ref, true
}

func noteResponse(n *domain.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:         n.ID,
		EntityKind: string(n.Entity.Kind),
		EntityID:   n.Entity.ID,
		Body:       n.Body,
		CreatedAt:  n.CreatedAt,
	}
}

func attachmentResponse(a *domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:          a.ID,
		EntityKind:  string(a.Entity.Kind),
		EntityID:    a.Entity.ID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		Description: a.Description,
		UploadedAt:  a.UploadedAt,
	}
}
