// internal/controller/upload_controller.go
package controller

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/uploads"
)

// UploadController accepts image uploads for image campaigns and serves
// them back to the gateway. Images live in memory with a TTL; the URL only
// needs to survive until the blast finishes.
type UploadController struct {
	Store *uploads.Store

	// PublicBaseURL is what the gateway can reach us on, e.g.
	// http://localhost:4000.
	PublicBaseURL string
}

func (c *UploadController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploads.MaxImageSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if header.Size > uploads.MaxImageSize {
		respondError(w, http.StatusRequestEntityTooLarge, "image exceeds the 10MB limit")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, uploads.MaxImageSize+1))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}
	if len(data) > uploads.MaxImageSize {
		respondError(w, http.StatusRequestEntityTooLarge, "image exceeds the 10MB limit")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		respondError(w, http.StatusBadRequest, "only image uploads are accepted")
		return
	}

	id := c.Store.Put(data, mimeType)
	respondSuccess(w, http.StatusCreated, map[string]any{
		"image_id":  id,
		"image_url": fmt.Sprintf("%s/temp-images/%s", c.PublicBaseURL, id),
	})
}

func (c *UploadController) ServeImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	img, ok := c.Store.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "image not found or expired")
		return
	}
	w.Header().Set("Content-Type", img.MimeType)
	w.Write(img.Data)
}
