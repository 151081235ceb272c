package handler

import (
	"errors"
	"mime"

	"github.com/gofiber/fiber/v2"

	"visadocs/internal/http/middleware"
	"visadocs/internal/service"
	"visadocs/internal/validation"
)

// ListDocuments returns the caller's dossier grouped by category.
//
// @Summary List visa documents
// @Tags visa-documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.envelope
// @Router /visa-documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.UserIDFromCtx(c)
		if owner == "" {
			return writeError(c, fiber.StatusUnauthorized, "Unauthenticated.")
		}

		groups, err := svc.List(c.UserContext(), owner)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to list documents")
		}
		return writeData(c, fiber.StatusOK, "", groups)
	}
}

// UploadDocument accepts a multipart upload (`file`, `document_type`) and
// files it into the caller's dossier.
//
// @Summary Upload a visa document
// @Tags visa-documents
// @Accept mpfd
// @Produce json
// @Param file formData file true "Document file (pdf, png, jpg, jpeg, max 4096 KiB)"
// @Param document_type formData string true "identity | financial | travel"
// @Security BearerAuth
// @Success 201 {object} handler.envelope
// @Failure 422 {object} handler.envelope
// @Router /visa-documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.UserIDFromCtx(c)
		if owner == "" {
			return writeError(c, fiber.StatusUnauthorized, "Unauthenticated.")
		}

		documentType := c.FormValue("document_type")

		fh, err := c.FormFile("file")
		if err != nil {
			// A missing file is a validation outcome, reported alongside any
			// document_type violations, same as the rest of the validator.
			return writeValidationErrors(c, validation.ValidateUpload(nil, documentType).Errors)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file")
		}
		defer f.Close()

		contentType := fh.Header.Get(fiber.HeaderContentType)
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), owner, f, service.UploadInput{
			Filename:     fh.Filename,
			ContentType:  contentType,
			Size:         fh.Size,
			DocumentType: documentType,
		})
		if err != nil {
			var vErr *service.ValidationError
			if errors.As(err, &vErr) {
				return writeValidationErrors(c, vErr.Fields)
			}
			return writeError(c, fiber.StatusInternalServerError, "Failed to upload file")
		}

		return writeData(c, fiber.StatusCreated, "File uploaded successfully", doc)
	}
}

// DeleteDocument removes a document and its stored file.
//
// @Summary Delete a visa document
// @Tags visa-documents
// @Produce json
// @Param id path string true "Document ID"
// @Security BearerAuth
// @Success 200 {object} handler.envelope
// @Failure 403 {object} handler.envelope
// @Router /visa-documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.UserIDFromCtx(c)
		if owner == "" {
			return writeError(c, fiber.StatusUnauthorized, "Unauthenticated.")
		}

		if err := svc.Delete(c.UserContext(), owner, c.Params("id")); err != nil {
			if errors.Is(err, service.ErrForbidden) {
				return writeError(c, fiber.StatusForbidden, "Unauthorized")
			}
			return writeError(c, fiber.StatusInternalServerError, "Failed to delete document")
		}

		return writeMessage(c, fiber.StatusOK, "Document deleted successfully")
	}
}

// DownloadDocument streams a document's bytes back to its owner.
//
// @Summary Download a visa document
// @Tags visa-documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 403 {object} handler.envelope
// @Failure 404 {object} handler.envelope
// @Router /visa-documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.UserIDFromCtx(c)
		if owner == "" {
			return writeError(c, fiber.StatusUnauthorized, "Unauthenticated.")
		}

		dl, err := svc.Download(c.UserContext(), owner, c.Params("id"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrForbidden):
				return writeError(c, fiber.StatusForbidden, "Unauthorized")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "File not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "Failed to download document")
			}
		}

		doc := dl.Document
		c.Set(fiber.HeaderContentType, doc.MimeType)
		c.Set(fiber.HeaderContentDisposition,
			mime.FormatMediaType("attachment", map[string]string{"filename": doc.OriginalName}))

		// SendStream closes dl.Content after the body has been written.
		return c.SendStream(dl.Content, int(doc.FileSize))
	}
}
