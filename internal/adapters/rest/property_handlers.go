package rest

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxListingImages     = 10
	multipartMemoryLimit = 8 << 20
	imagesFormField      = "images[]"
)

type PropertyHandler struct {
	findUC       usecases_port.FindPropertiesUseCasePort
	detailsUC    usecases_port.GetPropertyDetailsUseCasePort
	imagesUC     usecases_port.ListPropertyImagesUseCasePort
	submitUC     usecases_port.SubmitListingUseCasePort
	maxImageSize int64
}

func NewPropertyHandler(findUC usecases_port.FindPropertiesUseCasePort,
	detailsUC usecases_port.GetPropertyDetailsUseCasePort,
	imagesUC usecases_port.ListPropertyImagesUseCasePort,
	submitUC usecases_port.SubmitListingUseCasePort,
	maxImageSize int64) *PropertyHandler {
	if maxImageSize <= 0 {
		maxImageSize = domain.DefaultMaxImageSize
	}
	return &PropertyHandler{
		findUC:       findUC,
		detailsUC:    detailsUC,
		imagesUC:     imagesUC,
		submitUC:     submitUC,
		maxImageSize: maxImageSize,
	}
}

// FindProperties обрабатывает GET /api/v1/properties
func (h *PropertyHandler) FindProperties(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset := parsePagination(query)
	filters := domain.PropertyFilters{
		City:         query.Get("city"),
		VerifiedOnly: parseBool(query, "verified"),
		Sort:         domain.ParseSortKey(query.Get("sort")),
	}

	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":  "FindProperties",
		"limit":    limit,
		"offset":   offset,
		"city":     filters.City,
		"verified": filters.VerifiedOnly,
		"sort":     string(filters.Sort),
	})

	result, err := h.findUC.Execute(r.Context(), filters, limit, offset)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	response := PaginatedPropertiesResponse{
		Total:   result.TotalCount,
		Page:    result.CurrentPage,
		PerPage: result.ItemsPerPage,
		Data:    make([]PropertyResponse, len(result.Properties)),
	}
	for i, p := range result.Properties {
		response.Data[i] = toPropertyResponse(p)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// GetPropertyDetails обрабатывает GET /api/v1/properties/{propertyID}
func (h *PropertyHandler) GetPropertyDetails(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		logger.Warn("Invalid property ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{"handler": "GetPropertyDetails", "property_id": propertyID})

	details, err := h.detailsUC.Execute(r.Context(), propertyID)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, PropertyDetailsResponse{
		PropertyResponse: toPropertyResponse(details.Property),
		Images:           toImageResponses(details.Images),
	})
}

// ListPropertyImages обрабатывает GET /api/v1/properties/{propertyID}/images
func (h *PropertyHandler) ListPropertyImages(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		logger.Warn("Invalid property ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{"handler": "ListPropertyImages", "property_id": propertyID})

	images, err := h.imagesUC.Execute(r.Context(), propertyID)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"images": toImageResponses(images)})
}

// SubmitListing обрабатывает POST /api/v1/properties.
// Принимает JSON или multipart с полями формы и файлами images[].
func (h *PropertyHandler) SubmitListing(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubmitListing"})

	var (
		listing domain.NewListing
		images  []domain.ImageFile
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxImageSize*maxListingImages+multipartMemoryLimit)
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			handlerLogger.Warn("Failed to parse multipart form", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, multipartErrorMessage(err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		var err error
		listing, err = listingFromForm(r.MultipartForm)
		if err != nil {
			writeUseCaseError(w, handlerLogger, err)
			return
		}

		fileHeaders := r.MultipartForm.File[imagesFormField]
		if len(fileHeaders) > maxListingImages {
			WriteJSONError(w, http.StatusBadRequest, "too many images (max "+strconv.Itoa(maxListingImages)+")")
			return
		}
		var closeFiles func()
		images, closeFiles, err = openImageFiles(fileHeaders)
		if err != nil {
			handlerLogger.Error("Failed to open uploaded file", err, nil)
			WriteJSONError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		defer closeFiles()
	} else {
		var req SubmitListingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlerLogger.Warn("Failed to decode listing request body", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		listing = req.toDomain()
	}

	id, err := h.submitUC.Execute(r.Context(), listing, images)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Listing submitted", port.Fields{"property_id": id, "images": len(images)})
	RespondWithJSON(w, http.StatusCreated, SubmitListingResponse{Ok: true, ID: id})
}

func listingFromForm(form *multipart.Form) (domain.NewListing, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	listing := domain.NewListing{
		Title:       value("title"),
		Description: optionalString(value("description")),
		City:        value("city"),
		State:       value("state"),
		Pincode:     optionalString(value("pincode")),
		HeroURL:     optionalString(value("hero_url")),
	}
	if raw := strings.TrimSpace(value("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return listing, domain.NewValidationError("price", "price must be a non-negative number")
		}
		listing.Price = &price
	}
	return listing, nil
}

// openImageFiles открывает части multipart; closeFiles закрывает все открытые.
func openImageFiles(headers []*multipart.FileHeader) ([]domain.ImageFile, func(), error) {
	opened := make([]multipart.File, 0, len(headers))
	closeFiles := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	images := make([]domain.ImageFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeFiles()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		images = append(images, domain.ImageFile{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return images, closeFiles, nil
}

func multipartErrorMessage(err error) string {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return "request is too large"
	}
	return "Invalid multipart form"
}
