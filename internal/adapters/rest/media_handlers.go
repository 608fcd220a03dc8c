package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/go-chi/chi/v5"
)

type MediaHandler struct {
	blobs port.BlobReaderPort
}

func NewMediaHandler(blobs port.BlobReaderPort) *MediaHandler {
	return &MediaHandler{blobs: blobs}
}

// ServeMedia обрабатывает GET /media/*. Ключи неизменяемы, поэтому кэш долгий.
func (h *MediaHandler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ServeMedia", "key": key})

	if key == "" || strings.Contains(key, "..") {
		WriteJSONError(w, http.StatusNotFound, "not found")
		return
	}

	body, contentType, size, err := h.blobs.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrObjectNotFound) {
			WriteJSONError(w, http.StatusNotFound, "not found")
			return
		}
		handlerLogger.Error("Failed to open media object", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "failed to read media")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		handlerLogger.Warn("Media stream interrupted", port.Fields{"error": err.Error()})
	}
}
