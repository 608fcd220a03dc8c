package rest

import (
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

// SubmitListingRequest - JSON-тело POST /properties.
type SubmitListingRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Pincode     *string  `json:"pincode"`
	Price       *float64 `json:"price"`
	HeroURL     *string  `json:"hero_url"`
}

func (r SubmitListingRequest) toDomain() domain.NewListing {
	return domain.NewListing{
		Title:       r.Title,
		Description: r.Description,
		City:        r.City,
		State:       r.State,
		Pincode:     r.Pincode,
		Price:       r.Price,
		HeroURL:     r.HeroURL,
	}
}

type CaptureLeadRequest struct {
	PropertyID string `json:"property_id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
}

type SetVerificationRequest struct {
	Verification *bool `json:"verification"`
}

type OpsLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OkResponse struct {
	Ok bool `json:"ok"`
}

type SubmitListingResponse struct {
	Ok bool      `json:"ok"`
	ID uuid.UUID `json:"id"`
}

type PropertyResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Pincode      *string   `json:"pincode"`
	Price        *float64  `json:"price"`
	HeroURL      *string   `json:"hero_url"`
	Verification string    `json:"verification"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// OpsPropertyResponse дополнительно показывает старое поле status.
type OpsPropertyResponse struct {
	PropertyResponse
	LegacyStatus *string `json:"status"`
}

type PropertyImageResponse struct {
	ID        uuid.UUID `json:"id"`
	Path      string    `json:"path"`
	PublicURL string    `json:"public_url"`
	CreatedAt time.Time `json:"created_at"`
}

type PropertyDetailsResponse struct {
	PropertyResponse
	Images []PropertyImageResponse `json:"images"`
}

// PaginatedPropertiesResponse - DTO для ответа со списком и пагинацией.
type PaginatedPropertiesResponse struct {
	Data    []PropertyResponse `json:"properties"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

type OpsPropertiesResponse struct {
	Ok    bool                  `json:"ok"`
	Rows  []OpsPropertyResponse `json:"rows"`
	Total int                   `json:"total"`
}

type UploadedImageResponse struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Path      string     `json:"path"`
	PublicURL string     `json:"public_url"`
}

type PropertySummaryResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Verification string    `json:"verification"`
}

// LeadRowResponse - строка панели лидов. Property == nil, если объявление не найдено;
// property_id при этом остается в строке.
type LeadRowResponse struct {
	ID         uuid.UUID                `json:"id"`
	PropertyID uuid.UUID                `json:"property_id"`
	FullName   string                   `json:"full_name"`
	Phone      string                   `json:"phone"`
	CreatedAt  time.Time                `json:"created_at"`
	Property   *PropertySummaryResponse `json:"property"`
}

type LeadsResponse struct {
	Rows []LeadRowResponse `json:"rows"`
}

type OpsHealthResponse struct {
	Ok        bool   `json:"ok"`
	Mode      string `json:"mode"`
	DevBypass bool   `json:"dev_bypass"`
	Env       string `json:"env"`
}

type OpsSessionResponse struct {
	Ok        bool      `json:"ok"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toPropertyResponse(p domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		City:         p.City,
		State:        p.State,
		Pincode:      p.Pincode,
		Price:        p.Price,
		HeroURL:      p.HeroURL,
		Verification: string(p.Verification),
		Verified:     p.Verification.IsVerified(),
		CreatedAt:    p.CreatedAt,
	}
}

func toImageResponses(images []domain.PropertyImage) []PropertyImageResponse {
	out := make([]PropertyImageResponse, len(images))
	for i, img := range images {
		out[i] = PropertyImageResponse{
			ID:        img.ID,
			Path:      img.Path,
			PublicURL: img.PublicURL,
			CreatedAt: img.CreatedAt,
		}
	}
	return out
}

func toLeadRow(row domain.LeadWithProperty) LeadRowResponse {
	resp := LeadRowResponse{
		ID:         row.Lead.ID,
		PropertyID: row.Lead.PropertyID,
		FullName:   row.Lead.FullName,
		Phone:      row.Lead.Phone,
		CreatedAt:  row.Lead.CreatedAt,
	}
	if row.Property != nil {
		resp.Property = &PropertySummaryResponse{
			ID:           row.Property.ID,
			Title:        row.Property.Title,
			City:         row.Property.City,
			State:        row.Property.State,
			Verification: string(row.Property.Verification),
		}
	}
	return resp
}
