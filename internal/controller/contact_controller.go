// internal/controller/contact_controller.go
package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/repository"
)

type ContactController struct {
	ContactRepo repository.ContactRepositoryInterface
}

func (c *ContactController) ListContacts(w http.ResponseWriter, r *http.Request) {
	includeBlocked := r.URL.Query().Get("include_blocked") == "true"

	contacts, err := c.ContactRepo.List(!includeBlocked)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, contacts)
}

func (c *ContactController) BlockContact(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	if err := c.ContactRepo.Block(phone); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{"phone": phone, "is_blocked": true})
}
