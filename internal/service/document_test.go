package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"visadocs/internal/model"
	repoMocks "visadocs/internal/repository/mocks"
	"visadocs/internal/storage"
	storeMocks "visadocs/internal/storage/mocks"
	"visadocs/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("groups by category with empty groups present", func(t *testing.T) {
		newer := time.Now().UTC()
		older := newer.Add(-time.Hour)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("ListByOwner", ctx, "user-1").Return([]model.Document{
			{ID: "d3", UserID: "user-1", DocumentType: model.DocumentTypeIdentity, CreatedAt: newer},
			{ID: "d2", UserID: "user-1", DocumentType: model.DocumentTypeTravel, CreatedAt: newer},
			{ID: "d1", UserID: "user-1", DocumentType: model.DocumentTypeIdentity, CreatedAt: older},
		}, nil)

		svc := NewDocumentService(nil, mRepo)
		groups, err := svc.List(ctx, "user-1")

		require.NoError(t, err)
		require.Len(t, groups.Identity, 2)
		// Newest first within a category.
		assert.Equal(t, "d3", groups.Identity[0].ID)
		assert.Equal(t, "d1", groups.Identity[1].ID)
		assert.Len(t, groups.Travel, 1)
		assert.NotNil(t, groups.Financial)
		assert.Empty(t, groups.Financial)
		mRepo.AssertExpectations(t)
	})

	t.Run("no documents yields three empty groups", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("ListByOwner", ctx, "user-2").Return([]model.Document{}, nil)

		svc := NewDocumentService(nil, mRepo)
		groups, err := svc.List(ctx, "user-2")

		require.NoError(t, err)
		assert.NotNil(t, groups.Identity)
		assert.NotNil(t, groups.Financial)
		assert.NotNil(t, groups.Travel)
		assert.Empty(t, groups.Identity)
	})

	t.Run("missing owner id", func(t *testing.T) {
		svc := NewDocumentService(nil, nil)
		_, err := svc.List(ctx, "")
		assert.ErrorIs(t, err, ErrOwnerNeeded)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("ListByOwner", ctx, "user-1").Return(nil, errors.New("db fail"))

		svc := NewDocumentService(nil, mRepo)
		_, err := svc.List(ctx, "user-1")
		assert.Error(t, err)
	})
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	validInput := UploadInput{
		Filename:     "passport.pdf",
		ContentType:  "application/pdf",
		Size:         10,
		DocumentType: "identity",
	}

	tests := []struct {
		name       string
		input      UploadInput
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader
		check      func(t *testing.T, doc *model.Document, err error)
	}{
		{
			name:  "happy path",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("not a pdf")
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "visa-documents/") && strings.HasSuffix(key, ".pdf")
				}), r, storage.PutObjectOptions{
					Size:        10,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "passport.pdf"},
				}).Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Key: key, Size: opt.Size, ContentType: opt.ContentType}
				}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.UserID == "user-1" &&
						doc.OriginalName == "passport.pdf" &&
						doc.FileName != "passport.pdf" &&
						doc.FilePath == "visa-documents/"+doc.FileName &&
						doc.DocumentType == model.DocumentTypeIdentity
				})).Return(func(ctx context.Context, doc *model.Document) *model.Document {
					return doc
				}, nil)
				return r
			},
			check: func(t *testing.T, doc *model.Document, err error) {
				require.NoError(t, err)
				require.NotNil(t, doc)
				assert.Equal(t, int64(10), doc.FileSize)
			},
		},
		{
			name: "jpg alias normalized to jpeg",
			input: UploadInput{
				Filename: "ticket.jpg", ContentType: "image/jpg", Size: 5, DocumentType: "travel",
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("bytes")
				mStore.On("Put", ctx, mock.Anything, r, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.ContentType == "image/jpeg"
				})).Return(storage.ObjectInfo{Key: "visa-documents/x.jpg", Size: 5}, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.MimeType == "image/jpeg"
				})).Return(&model.Document{ID: "gen"}, nil)
				return r
			},
			check: func(t *testing.T, doc *model.Document, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "oversize file rejected before any storage call",
			input: UploadInput{
				Filename: "big.pdf", ContentType: "application/pdf",
				Size: validation.MaxFileBytes + 1, DocumentType: "identity",
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("x")
			},
			check: func(t *testing.T, doc *model.Document, err error) {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.NotEmpty(t, vErr.Fields["file"])
				assert.Nil(t, doc)
			},
		},
		{
			name: "bad category rejected",
			input: UploadInput{
				Filename: "passport.pdf", ContentType: "application/pdf", Size: 10, DocumentType: "medical",
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("x")
			},
			check: func(t *testing.T, doc *model.Document, err error) {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.NotEmpty(t, vErr.Fields["document_type"])
			},
		},
		{
			name:  "nil reader reported as missing file",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return nil
			},
			check: func(t *testing.T, doc *model.Document, err error) {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.NotEmpty(t, vErr.Fields["file"])
			},
		},
		{
			name:  "storage error",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("x")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			check: func(t *testing.T, doc *model.Document, err error) {
				assert.ErrorContains(t, err, "upload to storage")
			},
		},
		{
			name:  "repository error triggers orphan cleanup",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("x")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
				return r
			},
			check: func(t *testing.T, doc *model.Document, err error) {
				assert.ErrorContains(t, err, "save document: db fail")
			},
		},
		{
			name:  "cleanup failure does not mask the original error",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("x")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			check: func(t *testing.T, doc *model.Document, err error) {
				assert.ErrorContains(t, err, "db fail")
				assert.ErrorContains(t, err, "orphan cleanup failed")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo)

			r := tt.setupMocks(mStore, mRepo)
			doc, err := svc.Upload(ctx, "user-1", r, tt.input)

			tt.check(t, doc, err)
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		documentID string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name:       "happy path",
			documentID: "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").
					Return(&model.Document{ID: "doc-1", UserID: "user-1", FilePath: "visa-documents/a.pdf"}, nil)
				mStore.On("Exists", ctx, "visa-documents/a.pdf").Return(true, nil)
				mStore.On("Delete", ctx, "visa-documents/a.pdf").Return(nil)
				mRepo.On("Delete", ctx, "doc-1").Return(nil)
			},
		},
		{
			name:       "blob already absent still removes record",
			documentID: "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").
					Return(&model.Document{ID: "doc-1", UserID: "user-1", FilePath: "visa-documents/a.pdf"}, nil)
				mStore.On("Exists", ctx, "visa-documents/a.pdf").Return(false, nil)
				mRepo.On("Delete", ctx, "doc-1").Return(nil)
			},
		},
		{
			name:       "missing record is forbidden",
			documentID: "missing",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrForbidden,
		},
		{
			name:       "someone else's document is forbidden",
			documentID: "doc-2",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-2").
					Return(&model.Document{ID: "doc-2", UserID: "user-2", FilePath: "visa-documents/b.pdf"}, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:       "storage delete error",
			documentID: "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").
					Return(&model.Document{ID: "doc-1", UserID: "user-1", FilePath: "visa-documents/a.pdf"}, nil)
				mStore.On("Exists", ctx, "visa-documents/a.pdf").Return(true, nil)
				mStore.On("Delete", ctx, "visa-documents/a.pdf").Return(errors.New("storage fail"))
			},
			wantErr: errors.New("delete storage object: storage fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo)

			tt.setupMocks(mStore, mRepo)
			err := svc.Delete(ctx, "user-1", tt.documentID)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrForbidden) {
					assert.ErrorIs(t, err, ErrForbidden)
				} else {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path streams content with record", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		doc := &model.Document{
			ID: "doc-1", UserID: "user-1", OriginalName: "passport.pdf",
			FilePath: "visa-documents/a.pdf", MimeType: "application/pdf",
		}
		mRepo.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mStore.On("Get", ctx, "visa-documents/a.pdf").
			Return(io.NopCloser(strings.NewReader("content")), storage.ObjectInfo{Key: "visa-documents/a.pdf", Size: 7}, nil)

		svc := NewDocumentService(mStore, mRepo)
		dl, err := svc.Download(ctx, "user-1", "doc-1")

		require.NoError(t, err)
		defer dl.Content.Close()
		assert.Equal(t, "passport.pdf", dl.Document.OriginalName)

		body, err := io.ReadAll(dl.Content)
		require.NoError(t, err)
		assert.Equal(t, "content", string(body))
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("missing record is forbidden", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		svc := NewDocumentService(nil, mRepo)
		_, err := svc.Download(ctx, "user-1", "missing")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("someone else's document is forbidden", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "doc-2").
			Return(&model.Document{ID: "doc-2", UserID: "user-2"}, nil)

		svc := NewDocumentService(nil, mRepo)
		_, err := svc.Download(ctx, "user-1", "doc-2")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("stale record with missing blob is not found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "doc-1").
			Return(&model.Document{ID: "doc-1", UserID: "user-1", FilePath: "visa-documents/gone.pdf"}, nil)
		mStore.On("Get", ctx, "visa-documents/gone.pdf").
			Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)

		svc := NewDocumentService(mStore, mRepo)
		_, err := svc.Download(ctx, "user-1", "doc-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("storage fault", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "doc-1").
			Return(&model.Document{ID: "doc-1", UserID: "user-1", FilePath: "visa-documents/a.pdf"}, nil)
		mStore.On("Get", ctx, "visa-documents/a.pdf").
			Return(nil, storage.ObjectInfo{}, errors.New("io fail"))

		svc := NewDocumentService(mStore, mRepo)
		_, err := svc.Download(ctx, "user-1", "doc-1")
		assert.ErrorContains(t, err, "read storage object")
	})
}
