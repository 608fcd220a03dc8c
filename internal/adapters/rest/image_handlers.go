package rest

import (
	"errors"
	"net/http"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const fileFormField = "file"

type ImageHandler struct {
	uploadUC     usecases_port.UploadPropertyImageUseCasePort
	heroUC       usecases_port.UploadHeroImageUseCasePort
	maxImageSize int64
}

func NewImageHandler(uploadUC usecases_port.UploadPropertyImageUseCasePort,
	heroUC usecases_port.UploadHeroImageUseCasePort,
	maxImageSize int64) *ImageHandler {
	if maxImageSize <= 0 {
		maxImageSize = domain.DefaultMaxImageSize
	}
	return &ImageHandler{uploadUC: uploadUC, heroUC: heroUC, maxImageSize: maxImageSize}
}

// UploadPropertyImage обрабатывает POST /api/v1/properties/{propertyID}/images
func (h *ImageHandler) UploadPropertyImage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		logger.Warn("Invalid property ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{"handler": "UploadPropertyImage", "property_id": propertyID})

	file, cleanup, ok := h.readSingleFile(w, r, handlerLogger)
	if !ok {
		return
	}
	defer cleanup()

	uploaded, err := h.uploadUC.Execute(r.Context(), propertyID, file)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, UploadedImageResponse{
		ID:        &uploaded.ID,
		Path:      uploaded.Path,
		PublicURL: uploaded.PublicURL,
	})
}

// UploadHeroImage обрабатывает POST /api/v1/uploads/hero
func (h *ImageHandler) UploadHeroImage(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UploadHeroImage"})

	file, cleanup, ok := h.readSingleFile(w, r, handlerLogger)
	if !ok {
		return
	}
	defer cleanup()

	uploaded, err := h.heroUC.Execute(r.Context(), file)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, UploadedImageResponse{
		Path:      uploaded.Path,
		PublicURL: uploaded.PublicURL,
	})
}

// readSingleFile читает часть "file". При ошибке ответ уже записан.
func (h *ImageHandler) readSingleFile(w http.ResponseWriter, r *http.Request, logger port.LoggerPort) (domain.ImageFile, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageSize+multipartMemoryLimit)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		logger.Warn("Failed to parse multipart form", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, multipartErrorMessage(err))
		return domain.ImageFile{}, nil, false
	}

	f, fh, err := r.FormFile(fileFormField)
	if err != nil {
		r.MultipartForm.RemoveAll()
		if errors.Is(err, http.ErrMissingFile) {
			WriteJSONError(w, http.StatusBadRequest, "file is required")
		} else {
			logger.Error("Failed to open uploaded file", err, nil)
			WriteJSONError(w, http.StatusBadRequest, "failed to read uploaded file")
		}
		return domain.ImageFile{}, nil, false
	}

	cleanup := func() {
		f.Close()
		r.MultipartForm.RemoveAll()
	}
	return domain.ImageFile{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, cleanup, true
}
