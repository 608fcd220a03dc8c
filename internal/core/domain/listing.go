package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// NewListing - данные продавца для нового объявления.
type NewListing struct {
	Title       string   `validate:"required"`
	City        string   `validate:"required"`
	State       string   `validate:"required"`
	Pincode     *string  `validate:"omitempty,max=12"`
	Description *string  `validate:"omitempty,max=5000"`
	Price       *float64 `validate:"omitempty,gte=0"`
	HeroURL     *string  `validate:"omitempty,http_url"`
}

// Normalize обрезает пробелы и превращает пустые необязательные поля в nil.
func (l *NewListing) Normalize() {
	l.Title = strings.TrimSpace(l.Title)
	l.City = strings.TrimSpace(l.City)
	l.State = strings.TrimSpace(l.State)
	l.Pincode = trimOptional(l.Pincode)
	l.Description = trimOptional(l.Description)
	l.HeroURL = trimOptional(l.HeroURL)
}

// Validate вызывается после Normalize.
func (l *NewListing) Validate() error {
	return translateValidation(structValidator().Struct(l), listingMessages)
}

var listingMessages = map[string]string{
	"Title":       "title is required",
	"City":        "city is required",
	"State":       "state is required",
	"Pincode":     "pincode is too long",
	"Description": "description is too long",
	"Price":       "price must be a non-negative number",
	"HeroURL":     "hero_url must be an absolute http(s) URL",
}

// NewLead - заявка покупателя.
type NewLead struct {
	PropertyID uuid.UUID `validate:"required"`
	FullName   string    `validate:"required"`
	Phone      string    `validate:"required"`
}

func (l *NewLead) Normalize() {
	l.FullName = strings.TrimSpace(l.FullName)
	l.Phone = strings.TrimSpace(l.Phone)
}

func (l *NewLead) Validate() error {
	if l.PropertyID == uuid.Nil {
		return NewValidationError("PropertyID", "property id is required")
	}
	return translateValidation(structValidator().Struct(l), leadMessages)
}

var leadMessages = map[string]string{
	"FullName": "Please enter your name",
	"Phone":    "Please enter your phone",
}

func translateValidation(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	field := fieldErrs[0].Field()
	msg, ok := messages[field]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return NewValidationError(field, msg)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
