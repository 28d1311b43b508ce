// internal/controller/message_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/repository"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/service"
)

type MessageController struct {
	Dispatcher  *service.Dispatcher
	MessageRepo repository.MessageRepositoryInterface
}

// SendMessage sends one ad-hoc text outside any campaign.
func (c *MessageController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone          string `json:"phone"`
		Message        string `json:"message"`
		TypingDuration int    `json:"typing_duration"`
		SessionName    string `json:"session_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(body.Phone) == "" || strings.TrimSpace(body.Message) == "" {
		respondError(w, http.StatusBadRequest, "phone and message are required")
		return
	}

	msg, err := c.Dispatcher.SendDirect(body.Phone, body.Message, body.TypingDuration, body.SessionName)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, msg)
}

// MessagesByPhone lists the outbound history for one recipient, newest
// first.
func (c *MessageController) MessagesByPhone(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	messages, err := c.MessageRepo.ListByPhone(phone)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, messages)
}
