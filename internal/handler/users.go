package handler

import (
	"errors"
	"net/http"

	internal_errors "github.com/rolodex-dev/rolodex/internal/errors"
	"github.com/rolodex-dev/rolodex/internal/middleware"
)

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UploadAvatar accepts a multipart form with the image in the "file" field.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Public.MaxAvatarSizeBytes)
	if err := r.ParseMultipartForm(h.cfg.Public.MaxAvatarSizeBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "Avatar exceeds the size limit", http.StatusRequestEntityTooLarge)
			return
		}
		writeErrorAndStatusCode(w, internal_errors.BadRequest("Invalid multipart form"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeErrorAndStatusCode(w, internal_errors.BadRequest("Missing file field"))
		return
	}
	defer file.Close()

	updated, err := h.users.ChangeAvatar(r.Context(), *user, file)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
