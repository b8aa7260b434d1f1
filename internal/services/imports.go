package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/feedbackge/ai-backend/internal/extractor"
	"github.com/feedbackge/ai-backend/internal/models"
	"github.com/feedbackge/ai-backend/internal/storage"
	"github.com/feedbackge/ai-backend/internal/utils"
)

// ImportService turns an uploaded document into survey questions.
type ImportService interface {
	ImportDocument(ctx context.Context, req *models.UploadRequest) (Reply, error)
}

type importService struct {
	ai      AIService
	archive storage.Archive
	logger  *utils.Logger
}

func NewImportService(ai AIService, archive storage.Archive, logger *utils.Logger) ImportService {
	if archive == nil {
		archive = storage.Nop{}
	}
	return &importService{ai: ai, archive: archive, logger: logger}
}

func (s *importService) ImportDocument(ctx context.Context, req *models.UploadRequest) (Reply, error) {
	if len(req.File) == 0 {
		return Reply{}, utils.NewBadRequestError("Uploaded file is empty")
	}

	format, err := extractor.DetectFormat(req.Filename, req.ContentType)
	if err != nil {
		s.logger.Warn("Unsupported upload", "filename", req.Filename, "content_type", req.ContentType)
		return Reply{}, utils.NewBadRequestError("Unsupported file type. Allowed: PDF, DOCX, TXT, HTML")
	}

	text, err := extractor.Extract(format, req.File)
	if err != nil {
		s.logger.Warn("Failed to extract text", "filename", req.Filename, "format", format, "error", err)
		if errors.Is(err, extractor.ErrUnsupportedFormat) {
			return Reply{}, utils.NewBadRequestError("Unsupported file type. Allowed: PDF, DOCX, TXT, HTML")
		}
		return Reply{}, utils.NewBadRequestError("No text could be extracted from the document")
	}

	key := archiveKey(req.Filename, format)
	if err := s.archive.Put(ctx, key, req.File, format.ContentType()); err != nil {
		s.logger.Warn("Failed to archive document", "key", key, "error", err)
	}

	s.logger.Info("Document text extracted",
		"filename", req.Filename,
		"format", format,
		"bytes", len(req.File),
		"text_length", len([]rune(text)))

	return s.ai.ImportQuestions(ctx, &models.ImportQuestionsRequest{
		FileContent: text,
		FileType:    string(format),
		SurveyTopic: req.SurveyTopic,
	})
}

func archiveKey(filename string, format extractor.Format) string {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "document." + string(format)
	}
	return fmt.Sprintf("imports/%s/%s", utils.GenerateID(), name)
}
