// internal/service/reconciler.go
package service

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/events"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/model"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/repository"
)

// ackStatus maps the gateway's numeric ack levels onto message statuses.
var ackStatus = map[int]string{
	1: model.MessageStatusSent,
	2: model.MessageStatusDelivered,
	3: model.MessageStatusRead,
}

// Reconciler folds asynchronous gateway events (delivery acks, inbound
// replies) back into message, campaign and contact state. It runs
// concurrently with active dispatch loops; it never touches counters except
// through recomputation, so the two writers cannot corrupt each other.
type Reconciler struct {
	CampaignRepo repository.CampaignRepositoryInterface
	MessageRepo  repository.MessageRepositoryInterface
	ReplyRepo    repository.ReplyRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	Events       events.Publisher
}

// HandleAck advances a message's status per the gateway's delivery
// confirmation. Acks that do not represent forward progress, reference an
// unknown message, or carry an unknown level are dropped silently.
func (r *Reconciler) HandleAck(wahaMessageID string, level int) {
	status, ok := ackStatus[level]
	if !ok || wahaMessageID == "" {
		return
	}

	msg, err := r.MessageRepo.GetByWahaID(wahaMessageID)
	if err != nil {
		log.Error().Err(err).Str("waha_message_id", wahaMessageID).Msg("ack lookup failed")
		return
	}
	if msg == nil {
		log.Debug().Str("waha_message_id", wahaMessageID).Msg("ack for unknown message dropped")
		return
	}
	if !model.StatusAdvances(msg.Status, status) {
		return
	}

	if err := r.MessageRepo.UpdateStatus(msg.ID, status, nil, nil); err != nil {
		log.Error().Err(err).Int("message_id", msg.ID).Msg("failed to apply ack")
		return
	}
	if msg.CampaignID != nil {
		if err := r.CampaignRepo.RecomputeStats(*msg.CampaignID); err != nil {
			log.Warn().Err(err).Int("campaign_id", *msg.CampaignID).Msg("campaign stats recompute failed")
		}
	}

	r.publish(events.MessageStatus, map[string]any{"message_id": msg.ID, "status": status})
}

// InboundMessage is an inbound chat message pushed by the gateway.
type InboundMessage struct {
	From     string
	Body     string
	Type     string
	MediaURL *string
	WahaID   string
	FromMe   bool
}

// HandleInbound attaches an inbound message as a reply to the most recent
// message previously sent to that recipient. Self-originated messages and
// messages from recipients we never wrote to are dropped.
func (r *Reconciler) HandleInbound(in InboundMessage) {
	if in.FromMe || in.From == "" {
		return
	}
	phoneNumber := strings.SplitN(in.From, "@", 2)[0]

	messages, err := r.MessageRepo.ListByPhone(phoneNumber)
	if err != nil {
		log.Error().Err(err).Str("phone", phoneNumber).Msg("reply lookup failed")
		return
	}
	if len(messages) == 0 {
		log.Debug().Str("phone", phoneNumber).Msg("reply from unknown recipient dropped")
		return
	}
	last := messages[0]

	replyType := in.Type
	if replyType == "" {
		replyType = "text"
	}
	reply := &model.Reply{
		MessageID:   &last.ID,
		CampaignID:  last.CampaignID,
		PhoneNumber: phoneNumber,
		ReplyText:   &in.Body,
		ReplyType:   replyType,
		MediaURL:    in.MediaURL,
		WahaReplyID: strPtrOrNil(in.WahaID),
	}
	if err := r.ReplyRepo.Create(reply); err != nil {
		log.Error().Err(err).Str("phone", phoneNumber).Msg("failed to store reply")
		return
	}
	log.Info().Str("phone", phoneNumber).Msg("💬 reply stored")

	if last.CampaignID != nil {
		if err := r.CampaignRepo.RecomputeStats(*last.CampaignID); err != nil {
			log.Warn().Err(err).Int("campaign_id", *last.CampaignID).Msg("campaign stats recompute failed")
		}
	}
	if err := r.ContactRepo.Upsert(phoneNumber, nil); err != nil {
		log.Warn().Err(err).Str("phone", phoneNumber).Msg("contact upsert failed")
	} else if err := r.ContactRepo.RecomputeStats(phoneNumber); err != nil {
		log.Warn().Err(err).Str("phone", phoneNumber).Msg("contact stats recompute failed")
	}

	r.publish(events.ReplyReceived, map[string]any{
		"reply_id": reply.ID,
		"phone":    phoneNumber,
	})
}

func (r *Reconciler) publish(event string, payload any) {
	if r.Events != nil {
		r.Events.Publish(event, payload)
	}
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
