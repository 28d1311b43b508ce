// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/errors"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/repository"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Dispatcher      *service.Dispatcher
	MessageRepo     repository.MessageRepositoryInterface
	ReplyRepo       repository.ReplyRepositoryInterface
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name                 string   `json:"name"`
		Message              string   `json:"message"`
		ImageURL             string   `json:"image_url"`
		Caption              string   `json:"caption"`
		Type                 string   `json:"type"`
		Contacts             []string `json:"contacts"`
		TypingDuration       *int     `json:"typing_duration"`
		DelayBetweenMessages *int     `json:"delay_between_messages"`
		SessionName          string   `json:"session_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(service.CreateCampaignInput{
		Name:                 body.Name,
		Message:              body.Message,
		ImageURL:             body.ImageURL,
		Caption:              body.Caption,
		Type:                 body.Type,
		Contacts:             body.Contacts,
		TypingDuration:       body.TypingDuration,
		DelayBetweenMessages: body.DelayBetweenMessages,
		SessionName:          body.SessionName,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondSuccess(w, http.StatusCreated, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}

	campaigns, err := c.CampaignService.List(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, campaigns)
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	campaign, err := c.CampaignService.Get(id)
	if err != nil {
		respondCampaignError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, campaign)
}

func (c *CampaignController) StartCampaign(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var body struct {
		SessionName string `json:"session_name"`
	}
	// Body is optional here; an empty or absent one means campaign defaults.
	json.NewDecoder(r.Body).Decode(&body)

	if err := c.Dispatcher.Start(id, body.SessionName); err != nil {
		respondCampaignError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"campaign_id": id,
		"status":      "running",
	})
}

func (c *CampaignController) StopCampaign(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	if err := c.Dispatcher.Stop(id); err != nil {
		respondCampaignError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"campaign_id": id,
		"status":      "stopped",
	})
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	if err := c.CampaignService.Delete(id); err != nil {
		respondCampaignError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{"deleted": id})
}

func (c *CampaignController) ListCampaignMessages(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	messages, err := c.MessageRepo.ListByCampaign(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, messages)
}

func (c *CampaignController) ListCampaignReplies(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	replies, err := c.ReplyRepo.ListByCampaign(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, replies)
}

func (c *CampaignController) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := c.CampaignService.Statistics()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, stats)
}

// BlastText is the one-shot path: create a text campaign from a newline
// separated target list and start it immediately.
func (c *CampaignController) BlastText(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name                 string `json:"name"`
		Message              string `json:"message"`
		Contacts             string `json:"contacts"`
		TypingDuration       *int   `json:"typing_duration"`
		DelayBetweenMessages *int   `json:"delay_between_messages"`
		SessionName          string `json:"session_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	c.blast(w, service.CreateCampaignInput{
		Name:                 body.Name,
		Message:              body.Message,
		Contacts:             service.ParsePhoneList(body.Contacts),
		TypingDuration:       body.TypingDuration,
		DelayBetweenMessages: body.DelayBetweenMessages,
		SessionName:          body.SessionName,
	})
}

// BlastImage is the image variant of BlastText.
func (c *CampaignController) BlastImage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name                 string `json:"name"`
		ImageURL             string `json:"image_url"`
		Caption              string `json:"caption"`
		Contacts             string `json:"contacts"`
		TypingDuration       *int   `json:"typing_duration"`
		DelayBetweenMessages *int   `json:"delay_between_messages"`
		SessionName          string `json:"session_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	c.blast(w, service.CreateCampaignInput{
		Name:                 body.Name,
		Type:                 "image",
		ImageURL:             body.ImageURL,
		Caption:              body.Caption,
		Contacts:             service.ParsePhoneList(body.Contacts),
		TypingDuration:       body.TypingDuration,
		DelayBetweenMessages: body.DelayBetweenMessages,
		SessionName:          body.SessionName,
	})
}

func (c *CampaignController) blast(w http.ResponseWriter, in service.CreateCampaignInput) {
	campaign, err := c.CampaignService.CreateCampaign(in)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := c.Dispatcher.Start(campaign.ID, in.SessionName); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, http.StatusCreated, map[string]any{
		"campaign_id":   campaign.ID,
		"total_targets": campaign.TotalTargets,
		"status":        "running",
	})
}

func respondCampaignError(w http.ResponseWriter, err error) {
	var notFound *appErrors.ErrCampaignNotFound
	var running *appErrors.ErrCampaignRunning
	switch {
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &running):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
