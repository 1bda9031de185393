package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mpanelo/pdfdeck"
)

const pptxMIMEType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

type handler struct {
	engine         pdfdeck.Engine
	maxUploadBytes int64
}

func newHandler(e pdfdeck.Engine, maxUploadBytes int64) *handler {
	return &handler{engine: e, maxUploadBytes: maxUploadBytes}
}

// POST /upload
// Accepts a multipart PDF upload and returns its opaque ID.
func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart upload with 'file'")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	u, err := h.engine.Upload(r.Context(), file, header.Filename)
	if err != nil {
		if errors.Is(err, pdfdeck.ErrInvalidUpload) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		slog.Error("upload error", "filename", header.Filename, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       u.ID,
		"filename": u.Filename,
	})
}

// POST /process
// Runs the extract -> segment -> render pipeline for a stored upload.
func (h *handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	res, err := h.engine.Process(ctx, req.ID)
	if err != nil {
		switch {
		case errors.Is(err, pdfdeck.ErrUploadNotFound):
			writeError(w, http.StatusNotFound, "upload not found")
		case errors.Is(err, pdfdeck.ErrExtraction):
			writeError(w, http.StatusUnprocessableEntity, "could not extract text from PDF")
		default:
			writeError(w, http.StatusInternalServerError, "processing failed")
		}
		slog.Error("process error", "id", req.ID, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// GET /download/{id}
// Serves the rendered presentation.
func (h *handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	path, err := h.engine.ArtifactPath(r.Context(), id)
	if err != nil {
		if errors.Is(err, pdfdeck.ErrUploadNotFound) || errors.Is(err, pdfdeck.ErrArtifactNotReady) {
			writeError(w, http.StatusNotFound, "presentation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "download failed")
		slog.Error("download error", "id", id, "error", err)
		return
	}

	w.Header().Set("Content-Type", pptxMIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="presentation.pptx"`)
	http.ServeFile(w, r, path)
}

// GET /uploads
func (h *handler) handleListUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.engine.ListUploads(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list uploads")
		slog.Error("list uploads error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"uploads": uploads,
	})
}

// DELETE /uploads/{id}
func (h *handler) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.engine.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pdfdeck.ErrUploadNotFound) {
			writeError(w, http.StatusNotFound, "upload not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete failed")
		slog.Error("delete error", "id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf("%s", msg)})
}
