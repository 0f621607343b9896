// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"pdf-converter/internal/domain"
	"pdf-converter/internal/service"
)

// DocumentHandler handles upload, status polling, download and deletion.
type DocumentHandler struct {
	documents     *service.DocumentService
	logger        domain.Logger
	maxUploadSize int64
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *service.DocumentService, maxUploadSize int64, logger domain.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents:     documents,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// Convert accepts a multipart upload under the "file" field, validates it and
// enqueues the conversion. The response carries the document in processing
// state; clients poll GET /documents/{id} until it completes.
func (h *DocumentHandler) Convert(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	if !user.CanConvert() {
		writeError(w, http.StatusPaymentRequired, "You have no conversions left. Please add balance.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File size must be less than %d bytes", h.maxUploadSize))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please select a file to convert")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		writeDomainError(w, domain.ErrFileTooLarge)
		return
	}
	if _, err := service.DocumentTypeFor(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported file type. Upload a DOCX file or an image.")
		return
	}

	doc, err := h.documents.Upload(r.Context(), user, header.Filename, header.Size, file, clientIP(r))
	if err != nil {
		h.logger.Error("Upload failed", err, "user_id", user.ID, "filename", header.Filename)
		writeDomainError(w, err)
		return
	}

	h.logger.Info("Conversion queued", "document_id", doc.ID, "user_id", user.ID, "type", doc.DocumentType)
	writeJSON(w, http.StatusAccepted, doc)
}

// statusResponse is the polling payload. Balance fields are included once the
// conversion has completed so clients can refresh their display.
type statusResponse struct {
	Status          domain.ConversionStatus `json:"status"`
	Filename        string                  `json:"filename"`
	CreatedAt       string                  `json:"created_at"`
	PageCount       int                     `json:"page_count,omitempty"`
	DownloadURL     string                  `json:"download_url,omitempty"`
	BalanceCents    *int64                  `json:"balance_cents,omitempty"`
	FreeConversions *int                    `json:"free_conversions,omitempty"`
}

// Status returns the conversion state of one document.
func (h *DocumentHandler) Status(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	documentID := mux.Vars(r)["id"]

	doc, err := h.documents.GetForUser(r.Context(), user.ID, documentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := statusResponse{
		Status:    doc.Status,
		Filename:  doc.OriginalName,
		CreatedAt: doc.CreatedAt.Format(time.RFC3339),
	}
	if doc.Status == domain.StatusCompleted {
		resp.PageCount = doc.PageCount
		resp.DownloadURL = fmt.Sprintf("/api/v1/documents/%s/download", doc.ID)
		resp.BalanceCents = &user.Balance
		resp.FreeConversions = &user.FreeConversions
	}
	writeJSON(w, http.StatusOK, resp)
}

// List returns the user's documents, newest first.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	docs, err := h.documents.List(r.Context(), user.ID, 20)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Download streams the converted PDF as an attachment.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	documentID := mux.Vars(r)["id"]

	doc, rc, err := h.documents.Download(r.Context(), user.ID, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotReady) {
			writeError(w, http.StatusConflict, "Document is not ready for download")
			return
		}
		writeDomainError(w, err)
		return
	}
	defer rc.Close()

	filename := trimExtension(doc.OriginalName) + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("Download interrupted", "document_id", doc.ID, "error", err)
	}
}

// Delete removes a document and its files.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	documentID := mux.Vars(r)["id"]

	if err := h.documents.Delete(r.Context(), user.ID, documentID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard returns aggregate conversion stats for the user.
func (h *DocumentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	stats, err := h.documents.Dashboard(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func trimExtension(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
		if name[i] == '/' {
			break
		}
	}
	return name
}
