package photos

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/userctx"
)

// Handler handles HTTP requests for progress photos.
type Handler struct {
	service *Service
}

// NewHandler creates a new photos handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleUpload handles POST /v1/photos (multipart upload)
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	// Parse multipart form (max 32 MB in memory)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "File is required")
		return
	}
	file.Close() // the service reopens it

	photo, err := h.service.Upload(ctx, ownerUserID, r.FormValue("note"), fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			writeError(w, http.StatusBadRequest, "file_too_large", fmt.Sprintf("File exceeds maximum size of %d MB", h.service.maxUploadMB))
		case errors.Is(err, ErrUnsupportedMime):
			writeError(w, http.StatusBadRequest, "unsupported_mime", "File type not supported")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to store photo")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(photo)
}

// HandleList handles GET /v1/photos?limit=&offset=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	photos, err := h.service.List(ctx, ownerUserID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list photos")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PhotosResponse{Photos: photos})
}

// HandleDownload handles GET /v1/photos/{id}/download
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid photo ID")
		return
	}

	downloadURL, isRedirect, err := h.service.DownloadURL(ctx, ownerUserID, id)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			writeError(w, http.StatusNotFound, "photo_not_found", "Photo not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to resolve download")
		}
		return
	}

	if isRedirect {
		http.Redirect(w, r, downloadURL, http.StatusFound)
		return
	}

	data, contentType, err := h.service.Data(ctx, ownerUserID, id)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			writeError(w, http.StatusNotFound, "photo_not_found", "Photo not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to read photo")
		}
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// HandleDelete handles DELETE /v1/photos/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid photo ID")
		return
	}

	if err := h.service.Delete(ctx, ownerUserID, id); err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			writeError(w, http.StatusNotFound, "photo_not_found", "Photo not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete photo")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
