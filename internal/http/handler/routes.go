package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"visadocs/internal/http/middleware"
	"visadocs/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers stay
// minimal: identity is resolved once by the Auth middleware and passed
// explicitly into the service.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, tokens middleware.TokenVerifier) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	docs := app.Group("/visa-documents", middleware.Auth(tokens))
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/", UploadDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))
}
