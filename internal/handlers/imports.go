package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/feedbackge/ai-backend/internal/models"
	"github.com/feedbackge/ai-backend/internal/services"
	"github.com/feedbackge/ai-backend/internal/utils"
)

// multipartOverhead leaves room for boundaries and the form fields next to
// the file.
const multipartOverhead = 64 << 10

type ImportHandler struct {
	imports       services.ImportService
	maxUploadSize int64
	logger        *utils.Logger
}

func NewImportHandler(imports services.ImportService, maxUploadSize int64, logger *utils.Logger) *ImportHandler {
	return &ImportHandler{imports: imports, maxUploadSize: maxUploadSize, logger: logger}
}

func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	tooLarge := utils.NewBadRequestError(fmt.Sprintf("File size exceeds %s limit", humanSize(h.maxUploadSize)))

	if r.ContentLength > h.maxUploadSize+multipartOverhead {
		respondError(w, h.logger, tooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			respondError(w, h.logger, tooLarge)
			return
		}
		respondError(w, h.logger, utils.NewBadRequestError("Invalid form data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		respondError(w, h.logger, utils.NewInternalError("Failed to read file"))
		return
	}
	if int64(len(data)) > h.maxUploadSize {
		respondError(w, h.logger, tooLarge)
		return
	}

	h.logger.Info("Import upload received",
		"filename", header.Filename,
		"content_type", header.Header.Get("Content-Type"),
		"size", len(data))

	reply, err := h.imports.ImportDocument(r.Context(), &models.UploadRequest{
		File:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SurveyTopic: r.FormValue("surveyTopic"),
	})
	respondReply(w, h.logger, reply, err)
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
