package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/app"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/pkg/extract"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB

type DocumentHandler struct {
	documentService *app.DocumentService
}

func NewDocumentHandler(documentService *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload accepts a multipart form with "file" and a user_id query parameter.
// Content type is taken from the part header, falling back to the file
// extension.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "user_id is required")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromExt(file.Filename)
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}

	result, err := h.documentService.Upload(app.UploadInput{
		UserID:      userID,
		Filename:    file.Filename,
		ContentType: contentType,
		Content:     content,
	})
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFormat, "invalid file type, allowed: PDF, TXT")
		case errors.Is(err, extract.ErrExtractionFailed):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to extract text: "+err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload document failed")
		}
		return
	}

	response.Created(c, result)
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "user_id is required")
		return
	}

	documents, err := h.documentService.List(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}

	response.OK(c, gin.H{"documents": documents})
}

func contentTypeFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extract.ContentTypePDF
	case ".txt":
		return extract.ContentTypeText
	default:
		return ""
	}
}
