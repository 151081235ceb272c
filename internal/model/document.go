package model

import "time"

// DocumentType is the dossier category a document is filed under.
// The set is closed; values are matched case-sensitively with no synonyms.
type DocumentType string

const (
	DocumentTypeIdentity  DocumentType = "identity"
	DocumentTypeFinancial DocumentType = "financial"
	DocumentTypeTravel    DocumentType = "travel"
)

// DocumentTypes returns all categories in their fixed presentation order.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypeIdentity, DocumentTypeFinancial, DocumentTypeTravel}
}

// Valid reports whether t is one of the closed category set.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeIdentity, DocumentTypeFinancial, DocumentTypeTravel:
		return true
	}
	return false
}

// Document represents one uploaded visa dossier file.
// This is a pure domain model with no database-specific dependencies or tags;
// it is shared across the HTTP, service, and repository layers.
//
// FilePath is the object storage key. It is generated by the service, never
// derived from OriginalName, and assigned exactly once at creation.
type Document struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	OriginalName string       `json:"original_name"`
	FileName     string       `json:"file_name"`
	FilePath     string       `json:"file_path"`
	MimeType     string       `json:"mime_type"`
	FileSize     int64        `json:"file_size"`
	DocumentType DocumentType `json:"document_type"`
	CreatedAt    time.Time    `json:"created_at"`
}

// DocumentGroups partitions an owner's documents by category.
// All three categories are always present, empty slices included, and the
// JSON key order is fixed: identity, financial, travel.
type DocumentGroups struct {
	Identity  []Document `json:"identity"`
	Financial []Document `json:"financial"`
	Travel    []Document `json:"travel"`
}
