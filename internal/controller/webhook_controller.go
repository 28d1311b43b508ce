// internal/controller/webhook_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/service"
)

// WebhookController receives push events from the gateway. The gateway
// retries on non-2xx responses, so every request is acknowledged with 200
// no matter what we make of it; a malformed or irrelevant event is logged
// and dropped, never bounced.
type WebhookController struct {
	Reconciler *service.Reconciler
}

func (c *WebhookController) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var envelope struct {
		Event   string          `json:"event"`
		Session string          `json:"session"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		log.Warn().Err(err).Msg("unreadable webhook body")
		respondSuccess(w, http.StatusOK, nil)
		return
	}

	switch envelope.Event {
	case "message":
		c.handleMessage(envelope.Payload)
	case "message.ack":
		c.handleAck(envelope.Payload)
	default:
		log.Debug().Str("event", envelope.Event).Msg("ignoring webhook event")
	}

	respondSuccess(w, http.StatusOK, nil)
}

func (c *WebhookController) handleMessage(raw json.RawMessage) {
	var payload struct {
		ID       json.RawMessage `json:"id"`
		From     string          `json:"from"`
		FromMe   bool            `json:"fromMe"`
		Body     string          `json:"body"`
		Type     string          `json:"type"`
		HasMedia bool            `json:"hasMedia"`
		Media    *struct {
			URL string `json:"url"`
		} `json:"media"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Warn().Err(err).Msg("unreadable message payload")
		return
	}

	var mediaURL *string
	if payload.HasMedia && payload.Media != nil && payload.Media.URL != "" {
		mediaURL = &payload.Media.URL
	}

	c.Reconciler.HandleInbound(service.InboundMessage{
		From:     payload.From,
		Body:     payload.Body,
		Type:     payload.Type,
		MediaURL: mediaURL,
		WahaID:   decodeMessageID(payload.ID),
		FromMe:   payload.FromMe,
	})
}

func (c *WebhookController) handleAck(raw json.RawMessage) {
	var payload struct {
		ID  json.RawMessage `json:"id"`
		Ack int             `json:"ack"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Warn().Err(err).Msg("unreadable ack payload")
		return
	}

	c.Reconciler.HandleAck(decodeMessageID(payload.ID), payload.Ack)
}

// decodeMessageID copes with the gateway sending message ids either as a
// plain string or as an object with a _serialized field, depending on the
// engine behind the session.
func decodeMessageID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Serialized string `json:"_serialized"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Serialized
	}
	return ""
}
