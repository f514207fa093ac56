package handler

import (
	"log/slog"
	"net/http"

	"mdstash/internal/httputil"
	"mdstash/internal/service"
)

// FolderHandler handles folder HTTP requests.
type FolderHandler struct {
	folders *service.FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a folder handler.
func NewFolderHandler(folders *service.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, logger: logger}
}

type folderRequest struct {
	Name string `json:"name"`
}

// Create adds a new folder.
// POST /api/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folders.Create(r.Context(), req.Name)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// List returns every folder with resolved member metadata.
// GET /api/folders
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.folders.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"folders": views})
}

// Rename changes a folder's display name.
// PATCH /api/folders/{id}
func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folders.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// Delete removes a folder and all of its member files.
// DELETE /api/folders/{id}
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.folders.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addFileRequest struct {
	FileID string `json:"fileId"`
}

// AddFile files a file into a folder.
// POST /api/folders/{id}/files
func (h *FolderHandler) AddFile(w http.ResponseWriter, r *http.Request) {
	var req addFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.folders.AddFile(r.Context(), r.PathValue("id"), req.FileID); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFile unfiles a file from a folder.
// DELETE /api/folders/{id}/files/{fileId}
func (h *FolderHandler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	if err := h.folders.RemoveFile(r.Context(), r.PathValue("id"), r.PathValue("fileId")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveFileRequest struct {
	TargetFolderID string `json:"targetFolderId"`
}

// MoveFile transfers a file from this folder to another.
// POST /api/folders/{id}/files/{fileId}/move
func (h *FolderHandler) MoveFile(w http.ResponseWriter, r *http.Request) {
	var req moveFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.folders.Move(r.Context(), r.PathValue("id"), r.PathValue("fileId"), req.TargetFolderID); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
