package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
)

const (
	defaultPerPage = 12
	maxPerPage     = 60
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// writeUseCaseError переводит ошибку use case в HTTP-ответ.
func writeUseCaseError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	var validationErr *domain.ValidationError
	var storeErr *domain.StoreError

	switch {
	case errors.As(err, &validationErr):
		logger.Warn("Request rejected by validation", port.Fields{"field": validationErr.Field, "reason": validationErr.Message})
		WriteJSONError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrPropertyNotFound):
		logger.Warn("Property not found", nil)
		WriteJSONError(w, http.StatusNotFound, domain.ErrPropertyNotFound.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		logger.Warn("Ops login rejected", nil)
		WriteJSONError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.As(err, &storeErr):
		logger.Error("Store operation failed", err, port.Fields{"op": storeErr.Op})
		WriteJSONError(w, http.StatusInternalServerError, storeErr.Error())
	default:
		logger.Error("Use case failed with an unexpected error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// parsePagination читает page и perPage; perPage ограничен сверху.
func parsePagination(query url.Values) (limit, offset int) {
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(query.Get("perPage"))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return perPage, (page - 1) * perPage
}

func parseBool(query url.Values, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(query.Get(key)))
	return err == nil && v
}

// optionalString возвращает nil для пустого значения формы.
func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
