package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"askio/internal/app"
	"askio/internal/pkg/pdfextract"
	"askio/internal/platform/qdrant"
	"askio/internal/repository"
	"askio/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB per file

type DocumentsHandler struct {
	ingestService *app.IngestService
	docRepo       *repository.DocumentRepository
	vectorIndex   *qdrant.Client
	logger        *slog.Logger
}

// UploadResult reports the outcome for one uploaded file. Files are processed
// independently; one failing file never fails the batch.
type UploadResult struct {
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	DocumentID uint   `json:"document_id,omitempty"`
	ChunkCount int    `json:"chunk_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

func NewDocumentsHandler(ingestService *app.IngestService, docRepo *repository.DocumentRepository, vectorIndex *qdrant.Client, logger *slog.Logger) *DocumentsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentsHandler{
		ingestService: ingestService,
		docRepo:       docRepo,
		vectorIndex:   vectorIndex,
		logger:        logger,
	}
}

// Upload accepts a multipart form with one or more "files" entries (.txt or
// .pdf) and ingests each one independently.
func (h *DocumentsHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files provided")
		return
	}

	results := make([]UploadResult, 0, len(files))
	for _, file := range files {
		results = append(results, h.ingestFile(c, file))
	}

	response.OK(c, gin.H{"results": results})
}

func (h *DocumentsHandler) ingestFile(c *gin.Context, file *multipart.FileHeader) UploadResult {
	result := UploadResult{Filename: file.Filename, Status: "error"}

	if file.Size > maxUploadSize {
		result.Error = "file too large (max 10MB)"
		return result
	}

	text, err := extractFileText(file)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	ingested, err := h.ingestService.Ingest(c.Request.Context(), file.Filename, text)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			result.Error = "file contains no usable text"
		} else {
			h.logger.Error("ingest failed", "filename", file.Filename, "err", err)
			result.Error = "ingest failed"
		}
		return result
	}

	result.Status = "ok"
	result.DocumentID = ingested.DocumentID
	result.ChunkCount = ingested.ChunkCount
	return result
}

func extractFileText(file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", errors.New("failed to read file")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".txt":
		raw, err := io.ReadAll(f)
		if err != nil {
			return "", errors.New("failed to read file")
		}
		return string(raw), nil
	case ".pdf":
		text, err := pdfextract.ExtractText(f)
		if err != nil {
			return "", errors.New("failed to extract text from PDF")
		}
		if strings.TrimSpace(text) == "" {
			return "", errors.New("PDF contains no extractable text")
		}
		return text, nil
	default:
		return "", errors.New("unsupported file format (only .txt and .pdf)")
	}
}

func (h *DocumentsHandler) List(c *gin.Context) {
	docs, err := h.docRepo.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, docs)
}

// Delete removes a document, its chunks, and best-effort its vector points.
func (h *DocumentsHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	doc, err := h.docRepo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		return
	}
	if doc == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		return
	}

	if err := h.vectorIndex.DeletePointsByDocument(c.Request.Context(), doc.ID); err != nil {
		h.logger.Warn("delete vector points failed", "document_id", doc.ID, "err", err)
	}
	if err := h.docRepo.DeleteByID(c.Request.Context(), doc.ID); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		return
	}

	response.OK(c, gin.H{"deleted_document_id": doc.ID})
}
