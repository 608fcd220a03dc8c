package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OpsHandlerConfig - параметры ops-панели, не зависящие от запроса.
type OpsHandlerConfig struct {
	AuthMode     string
	Env          string
	SecureCookie bool
}

type OpsHandler struct {
	listLeadsUC usecases_port.ListLeadsUseCasePort
	findUC      usecases_port.FindPropertiesUseCasePort
	verifyUC    usecases_port.SetVerificationUseCasePort
	loginUC     usecases_port.OpsLoginUseCasePort
	logoutUC    usecases_port.OpsLogoutUseCasePort
	cfg         OpsHandlerConfig
}

// NewOpsHandler - loginUC и logoutUC равны nil в режиме shared_secret.
func NewOpsHandler(listLeadsUC usecases_port.ListLeadsUseCasePort,
	findUC usecases_port.FindPropertiesUseCasePort,
	verifyUC usecases_port.SetVerificationUseCasePort,
	loginUC usecases_port.OpsLoginUseCasePort,
	logoutUC usecases_port.OpsLogoutUseCasePort,
	cfg OpsHandlerConfig) *OpsHandler {
	return &OpsHandler{
		listLeadsUC: listLeadsUC,
		findUC:      findUC,
		verifyUC:    verifyUC,
		loginUC:     loginUC,
		logoutUC:    logoutUC,
		cfg:         cfg,
	}
}

func (h *OpsHandler) sessionsEnabled() bool {
	return h.loginUC != nil && h.logoutUC != nil
}

// Health обрабатывает GET /api/v1/ops/health. Наличие секрета на сервере не раскрывается.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	principal := contextkeys.PrincipalFromContext(r.Context())
	RespondWithJSON(w, http.StatusOK, OpsHealthResponse{
		Ok:        true,
		Mode:      h.cfg.AuthMode,
		DevBypass: principal != nil && principal.Method == domain.AuthMethodDevBypass,
		Env:       h.cfg.Env,
	})
}

// ListLeads обрабатывает GET /api/v1/ops/leads
func (h *OpsHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListLeads"})

	rows, err := h.listLeadsUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	response := LeadsResponse{Rows: make([]LeadRowResponse, len(rows))}
	for i, row := range rows {
		response.Rows[i] = toLeadRow(row)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// ListProperties обрабатывает GET /api/v1/ops/properties: все объявления, без фильтра по проверке.
func (h *OpsHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "OpsListProperties"})

	query := r.URL.Query()
	limit, offset := parsePagination(query)
	filters := domain.PropertyFilters{
		City:         query.Get("city"),
		VerifiedOnly: parseBool(query, "verified"),
		Sort:         domain.ParseSortKey(query.Get("sort")),
	}

	result, err := h.findUC.Execute(r.Context(), filters, limit, offset)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	response := OpsPropertiesResponse{
		Ok:    true,
		Total: result.TotalCount,
		Rows:  make([]OpsPropertyResponse, len(result.Properties)),
	}
	for i, p := range result.Properties {
		response.Rows[i] = OpsPropertyResponse{
			PropertyResponse: toPropertyResponse(p),
			LegacyStatus:     p.LegacyStatus,
		}
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// SetVerification обрабатывает PATCH /api/v1/ops/properties/{propertyID}/verification
func (h *OpsHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		logger.Warn("Invalid property ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{"handler": "SetVerification", "property_id": propertyID})

	var req SetVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Verification == nil {
		handlerLogger.Warn("Invalid verification request body", nil)
		WriteJSONError(w, http.StatusBadRequest, "verification must be true or false")
		return
	}

	if err := h.verifyUC.Execute(r.Context(), propertyID, *req.Verification); err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ok":           true,
		"id":           propertyID,
		"verification": string(domain.VerificationFromColumn(req.Verification)),
	})
}

// Login обрабатывает POST /api/v1/ops/session
func (h *OpsHandler) Login(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "OpsLogin"})

	var req OpsLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlerLogger.Warn("Failed to decode login request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, session, err := h.loginUC.Execute(r.Context(), req.Email, req.Password)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     opsSessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	RespondWithJSON(w, http.StatusOK, OpsSessionResponse{Ok: true, Email: session.Email, ExpiresAt: session.ExpiresAt})
}

// Logout обрабатывает DELETE /api/v1/ops/session. Cookie очищается в любом случае.
func (h *OpsHandler) Logout(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "OpsLogout"})

	if cookie, err := r.Cookie(opsSessionCookie); err == nil && cookie.Value != "" {
		if err := h.logoutUC.Execute(r.Context(), cookie.Value); err != nil {
			writeUseCaseError(w, handlerLogger, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     opsSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	RespondWithJSON(w, http.StatusOK, OkResponse{Ok: true})
}
