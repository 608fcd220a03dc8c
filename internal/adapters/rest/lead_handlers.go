package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

type LeadHandler struct {
	captureUC usecases_port.CaptureLeadUseCasePort
}

func NewLeadHandler(captureUC usecases_port.CaptureLeadUseCasePort) *LeadHandler {
	return &LeadHandler{captureUC: captureUC}
}

// CaptureLead обрабатывает POST /api/v1/leads
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CaptureLead"})

	var req CaptureLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlerLogger.Warn("Failed to decode lead request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// пустой id отдаем use case, он вернет понятное сообщение
	var propertyID uuid.UUID
	if raw := strings.TrimSpace(req.PropertyID); raw != "" {
		var err error
		propertyID, err = uuid.Parse(raw)
		if err != nil {
			handlerLogger.Warn("Invalid property ID format", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
			return
		}
	}

	err := h.captureUC.Execute(r.Context(), domain.NewLead{
		PropertyID: propertyID,
		FullName:   req.FullName,
		Phone:      req.Phone,
	})
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, OkResponse{Ok: true})
}
