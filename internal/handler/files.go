package handler

import (
	"io"
	"log/slog"
	"net/http"

	"mdstash/internal/httputil"
	"mdstash/internal/models"
	"mdstash/internal/service"
)

// maxUploadSize caps multipart uploads.
const maxUploadSize = 10 << 20

// FileHandler handles file HTTP requests.
type FileHandler struct {
	files  *service.FileService
	logger *slog.Logger
}

// NewFileHandler creates a file handler.
func NewFileHandler(files *service.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{files: files, logger: logger}
}

// HealthCheck reports liveness.
// GET /health
func (h *FileHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Upload stores a markdown file from a multipart form.
// POST /api/files
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	meta, err := h.files.Create(r.Context(), header.Filename, content, models.SourceUpload)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, meta)
}

type pasteRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Paste stores markdown text posted as JSON.
// POST /api/pastes
func (h *FileHandler) Paste(w http.ResponseWriter, r *http.Request) {
	var req pasteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	meta, err := h.files.Create(r.Context(), req.Filename, []byte(req.Content), models.SourcePaste)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, meta)
}

// List returns every non-archived file, most recently accessed first.
// GET /api/files
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	metas, err := h.files.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"files": metas})
}

type fileResponse struct {
	*models.FileMeta
	Content string `json:"content"`
}

// View returns a file's metadata and content, recording the view.
// GET /api/files/{id}
func (h *FileHandler) View(w http.ResponseWriter, r *http.Request) {
	meta, content, err := h.files.View(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, fileResponse{FileMeta: meta, Content: string(content)})
}

// Raw returns a file's markdown content as text, recording the view.
// GET /api/files/{id}/raw
func (h *FileHandler) Raw(w http.ResponseWriter, r *http.Request) {
	_, content, err := h.files.View(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write(content)
}

type renameRequest struct {
	Filename string `json:"filename"`
}

// Rename changes a file's display name.
// PATCH /api/files/{id}
func (h *FileHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	meta, err := h.files.Rename(r.Context(), r.PathValue("id"), req.Filename)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, meta)
}

// Delete removes a file entirely.
// DELETE /api/files/{id}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.files.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
