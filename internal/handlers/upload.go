package handlers

import (
	"net/http"

	"github.com/AnshRaj112/serenify-companion/internal/services"
)

// maxUploadBytes caps multipart uploads (10MB).
const maxUploadBytes = 10 << 20

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// UploadFile handles POST /api/uploads (multipart field "file") and returns
// the stored file's URL for use as a journal attachment.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if h.Uploader == nil {
		writeServiceError(w, services.ErrUploadsDisabled, "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	file.Close()

	url, err := services.UploadFileFromHeader(r.Context(), h.Uploader, fileHeader, services.JournalAttachmentFolder)
	if err != nil {
		writeServiceError(w, err, "Failed to upload file")
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		URL:     url,
	})
}
