// internal/controller/reply_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/repository"
)

type ReplyController struct {
	ReplyRepo repository.ReplyRepositoryInterface
}

func (c *ReplyController) UnreadReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := c.ReplyRepo.ListUnread()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, replies)
}

func (c *ReplyController) RepliesByPhone(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	replies, err := c.ReplyRepo.ListByPhone(phone)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, replies)
}

func (c *ReplyController) MarkReplyRead(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	if err := c.ReplyRepo.MarkRead(id); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{"reply_id": id, "is_read": true})
}
