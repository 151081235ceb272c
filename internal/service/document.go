package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"visadocs/internal/model"
	"visadocs/internal/repository"
	"visadocs/internal/storage"
	"visadocs/internal/validation"
)

var (
	// ErrForbidden is returned when a document does not exist or is owned by
	// another user. The two cases are deliberately indistinguishable so the
	// response never leaks whether an ID exists.
	ErrForbidden = errors.New("document access denied")

	// ErrNotFound is returned by Download when the record exists but its blob
	// is missing from storage (stale record).
	ErrNotFound = errors.New("file not found")

	ErrOwnerNeeded = errors.New("owner id is required")
)

// storageKeyPrefix namespaces all dossier blobs inside the bucket.
const storageKeyPrefix = "visa-documents"

// ValidationError carries field-level violations for a rejected upload.
// It is an expected, recoverable outcome, not a system fault.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// UploadInput describes a candidate upload as declared by the client.
type UploadInput struct {
	Filename     string
	ContentType  string
	Size         int64
	DocumentType string
}

// Download bundles the streamed content of a stored document with its record.
// The caller owns Content and must close it.
type Download struct {
	Document *model.Document
	Content  io.ReadCloser
}

// DocumentService defines the use cases for handling visa dossier documents.
// Every operation takes the authenticated owner explicitly; no ambient
// identity lookup happens below the HTTP layer.
type DocumentService interface {
	// List returns all of ownerID's documents partitioned into the three
	// fixed categories, newest first within each.
	List(ctx context.Context, ownerID string) (*model.DocumentGroups, error)

	// Upload validates the candidate file, stores its bytes under a fresh
	// generated key, persists the record, and returns it. Validation
	// failures come back as *ValidationError and persist nothing.
	Upload(ctx context.Context, ownerID string, r io.Reader, in UploadInput) (*model.Document, error)

	// Delete removes a document and its blob. An absent blob is treated as
	// already deleted; the record removal always follows.
	Delete(ctx context.Context, ownerID, documentID string) error

	// Download streams a document's content back along with its record, so
	// the caller can set the suggested filename and content type.
	Download(ctx context.Context, ownerID, documentID string) (*Download, error)
}

type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo}
}

// List groups the owner's documents by category. Every category is present in
// the result even when empty, regardless of how the underlying query is
// shaped.
func (s *documentService) List(ctx context.Context, ownerID string) (*model.DocumentGroups, error) {
	if ownerID == "" {
		return nil, ErrOwnerNeeded
	}
	docs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	groups := &model.DocumentGroups{
		Identity:  make([]model.Document, 0),
		Financial: make([]model.Document, 0),
		Travel:    make([]model.Document, 0),
	}
	// Repository order (created_at descending) is preserved within each group.
	for _, d := range docs {
		switch d.DocumentType {
		case model.DocumentTypeIdentity:
			groups.Identity = append(groups.Identity, d)
		case model.DocumentTypeFinancial:
			groups.Financial = append(groups.Financial, d)
		case model.DocumentTypeTravel:
			groups.Travel = append(groups.Travel, d)
		}
	}
	return groups, nil
}

func (s *documentService) Upload(ctx context.Context, ownerID string, r io.Reader, in UploadInput) (*model.Document, error) {
	if ownerID == "" {
		return nil, ErrOwnerNeeded
	}

	var meta *validation.FileMeta
	if r != nil {
		meta = &validation.FileMeta{
			Filename:    in.Filename,
			ContentType: in.ContentType,
			Size:        in.Size,
		}
	}
	if res := validation.ValidateUpload(meta, in.DocumentType); !res.Valid() {
		return nil, &ValidationError{Fields: res.Errors}
	}

	// Generated key: UUID + original extension, namespaced under the dossier
	// prefix. Never derived from the client filename.
	ext := filepath.Ext(in.Filename)
	fileName := uuid.New().String() + ext
	key := storageKeyPrefix + "/" + fileName

	mimeType := validation.NormalizeMimeType(in.ContentType)

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: mimeType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:           uuid.New().String(),
		UserID:       ownerID,
		OriginalName: in.Filename,
		FileName:     fileName,
		FilePath:     objInfo.Key,
		MimeType:     mimeType,
		FileSize:     objInfo.Size,
		DocumentType: model.DocumentType(in.DocumentType),
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Best-effort orphan cleanup; its own failure must not mask the
		// original persistence error.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("save document: %w (orphan cleanup failed: %v)", err, delErr)
		}
		return nil, fmt.Errorf("save document: %w", err)
	}
	return stored, nil
}

// ownedDocument fetches a record and enforces ownership. Missing records and
// records owned by someone else both come back as ErrForbidden.
func (s *documentService) ownedDocument(ctx context.Context, ownerID, documentID string) (*model.Document, error) {
	if documentID == "" {
		return nil, ErrForbidden
	}
	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if doc.UserID != ownerID {
		return nil, ErrForbidden
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, ownerID, documentID string) error {
	doc, err := s.ownedDocument(ctx, ownerID, documentID)
	if err != nil {
		return err
	}

	// Blob removal first; an already-absent blob counts as success and the
	// record removal follows regardless.
	if exists, err := s.store.Exists(ctx, doc.FilePath); err == nil && exists {
		if err := s.store.Delete(ctx, doc.FilePath); err != nil {
			return fmt.Errorf("delete storage object: %w", err)
		}
	}

	return s.repo.Delete(ctx, documentID)
}

func (s *documentService) Download(ctx context.Context, ownerID, documentID string) (*Download, error) {
	doc, err := s.ownedDocument(ctx, ownerID, documentID)
	if err != nil {
		return nil, err
	}

	rc, _, err := s.store.Get(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Record exists but the blob is gone (stale record).
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read storage object: %w", err)
	}

	return &Download{Document: doc, Content: rc}, nil
}
