package validation

import (
	"fmt"

	"visadocs/internal/model"
)

// MaxFileBytes is the upload size cap. The boundary is inclusive: a file of
// exactly 4096 KiB passes, one byte more fails.
const MaxFileBytes = 4096 * 1024

// allowedMimeTypes are the declared content types accepted for upload.
// image/jpg is a common client alias for image/jpeg and is accepted as such.
var allowedMimeTypes = map[string]string{
	"application/pdf": "application/pdf",
	"image/png":       "image/png",
	"image/jpeg":      "image/jpeg",
	"image/jpg":       "image/jpeg",
}

// FileMeta describes a candidate upload as declared by the client.
type FileMeta struct {
	Filename    string
	ContentType string
	Size        int64
}

// Result collects field-level violations for a single upload attempt.
// A failed validation is a normal, reportable outcome, not an error value;
// callers check Valid() and render Errors to the client.
type Result struct {
	Errors map[string][]string
}

// Valid reports whether the upload passed every check.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(field, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string][]string)
	}
	r.Errors[field] = append(r.Errors[field], message)
}

// NormalizeMimeType resolves accepted alias types to their canonical form.
// It returns the input unchanged for types outside the allowed set.
func NormalizeMimeType(contentType string) string {
	if canonical, ok := allowedMimeTypes[contentType]; ok {
		return canonical
	}
	return contentType
}

// ValidateUpload checks a candidate file and its declared category.
// Field names in the result match the multipart form fields so the violation
// map can be returned to the client as-is.
func ValidateUpload(file *FileMeta, documentType string) *Result {
	res := &Result{}

	if file == nil {
		res.add("file", "The file field is required.")
	} else {
		if _, ok := allowedMimeTypes[file.ContentType]; !ok {
			res.add("file", "The file must be a file of type: pdf, png, jpg, jpeg.")
		}
		if file.Size > MaxFileBytes {
			res.add("file", fmt.Sprintf("The file may not be greater than %d kilobytes.", MaxFileBytes/1024))
		}
	}

	if documentType == "" {
		res.add("document_type", "The document type field is required.")
	} else if !model.DocumentType(documentType).Valid() {
		res.add("document_type", "The selected document type is invalid.")
	}

	return res
}
