package handler

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/brainboard/brainboard/shared/api"
	internal_errors "github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/logger"
	"github.com/brainboard/brainboard/shared/utils"
	"github.com/brainboard/brainboard/shared/validation"
	"github.com/go-chi/chi/v5"
)

// UploadImage stores the multipart "file" part for /boards/{id}/images and
// /share/{token}/images.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	boardId, v, err := h.boardScope(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	file, header, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()
	defer file.Close()

	url, err := h.image.Upload(v, boardId, header, file)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.ImageUploadResponse{URL: url})
}

// UploadThumbnail stores the board cover image and points the board at it.
func (h *Handler) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	file, header, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()
	defer file.Close()

	v := viewer(r)
	url, err := h.image.UploadThumbnail(v, id, header, file)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	board, err := h.board.SetThumbnail(v, id, url)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, board)
}

// readUpload parses the multipart body and returns its "file" part. On
// failure the response is already written.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	maxRequestSize := validation.CalculateMaxRequestSize(h.cfg.Server.MaxUploadBytes, 1<<20)
	if err := validation.ValidateAndParseMultipart(r, w, maxRequestSize); err != nil {
		if errors.Is(err, validation.ErrPayloadTooLarge) {
			utils.WriteJSONError(w, "Image exceeds the upload limit", http.StatusRequestEntityTooLarge)
			return nil, nil, false
		}
		utils.WriteJSONError(w, "Invalid multipart form", http.StatusBadRequest)
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		utils.WriteJSONError(w, "Missing file", http.StatusBadRequest)
		return nil, nil, false
	}
	if header.Size > h.cfg.Server.MaxUploadBytes {
		file.Close()
		r.MultipartForm.RemoveAll()
		utils.WriteJSONError(w, "Image exceeds the upload limit", http.StatusRequestEntityTooLarge)
		return nil, nil, false
	}
	return file, header, true
}

// ServeImage streams a stored upload under /uploads/*.
func (h *Handler) ServeImage(w http.ResponseWriter, r *http.Request) {
	filePath := chi.URLParam(r, "*")
	if filePath == "" || strings.Contains(filePath, "..") {
		utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{Message: "Image not found", StatusCode: http.StatusNotFound})
		return
	}

	rc, err := h.image.Open(filePath)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(filePath)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, rc); err != nil {
		logger.Log.Debug("image stream interrupted", "path", filePath, "error", err)
	}
}
