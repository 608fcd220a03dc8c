package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event - доменное событие для публикации в брокер.
type Event interface {
	EventType() string
	EventVersion() string
	RoutingKey() string
}

type ListingSubmitted struct {
	PropertyID uuid.UUID `json:"property_id"`
	Title      string    `json:"title"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Price      *float64  `json:"price"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (ListingSubmitted) EventType() string    { return "ListingSubmittedEvent" }
func (ListingSubmitted) EventVersion() string { return "1.0.0" }
func (ListingSubmitted) RoutingKey() string   { return "listing.submitted" }

type VerificationChanged struct {
	PropertyID   uuid.UUID         `json:"property_id"`
	Verification VerificationState `json:"verification"`
	ChangedBy    string            `json:"changed_by"`
	OccurredAt   time.Time         `json:"occurred_at"`
}

func (VerificationChanged) EventType() string    { return "VerificationChangedEvent" }
func (VerificationChanged) EventVersion() string { return "1.0.0" }
func (VerificationChanged) RoutingKey() string   { return "listing.verification_changed" }

type LeadCaptured struct {
	LeadID     uuid.UUID `json:"lead_id"`
	PropertyID uuid.UUID `json:"property_id"`
	FullName   string    `json:"full_name"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (LeadCaptured) EventType() string    { return "LeadCapturedEvent" }
func (LeadCaptured) EventVersion() string { return "1.0.0" }
func (LeadCaptured) RoutingKey() string   { return "lead.captured" }

type ImageUploaded struct {
	ImageID    uuid.UUID `json:"image_id"`
	PropertyID uuid.UUID `json:"property_id"`
	Path       string    `json:"path"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (ImageUploaded) EventType() string    { return "ImageUploadedEvent" }
func (ImageUploaded) EventVersion() string { return "1.0.0" }
func (ImageUploaded) RoutingKey() string   { return "image.uploaded" }
