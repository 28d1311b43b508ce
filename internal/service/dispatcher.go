// internal/service/dispatcher.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	appErrors "github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/errors"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/events"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/model"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/phone"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/repository"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/waha"
)

// Gateway is the slice of the chat gateway the dispatch engine needs.
type Gateway interface {
	SendTyping(session, chatID string, durationMs int)
	SendText(session, chatID, text string) (string, error)
	SendImage(session, chatID, imageURL, caption string) (string, error)
}

const defaultTypingDuration = 3000 // ms

// Dispatcher drives campaigns through the gateway: one loop per active
// campaign, messages strictly in creation order, one in flight at a time.
// Loops for different campaigns run independently of each other and of the
// webhook reconciler; the store is the only shared state between them.
type Dispatcher struct {
	CampaignRepo repository.CampaignRepositoryInterface
	MessageRepo  repository.MessageRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	Gateway      Gateway
	Events       events.Publisher

	CountryCode    string
	DefaultSession string

	mu      sync.Mutex
	running map[int]context.CancelFunc
}

// Start transitions the campaign to running and kicks off its dispatch loop
// in the background. Returns immediately; starting a campaign that already
// has an active loop is rejected so the same pending queue is never
// processed twice.
func (d *Dispatcher) Start(campaignID int, sessionOverride string) error {
	campaign, err := d.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}

	d.mu.Lock()
	if d.running == nil {
		d.running = make(map[int]context.CancelFunc)
	}
	if _, active := d.running[campaignID]; active {
		d.mu.Unlock()
		return appErrors.NewCampaignRunning(campaignID)
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.running[campaignID] = cancel
	d.mu.Unlock()

	if err := d.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusRunning); err != nil {
		d.clearRunning(campaignID)
		return err
	}

	session := sessionOverride
	if session == "" {
		session = campaign.SessionName
	}
	if session == "" {
		session = d.DefaultSession
	}

	d.publish(events.CampaignStarted, map[string]any{"campaign_id": campaignID, "name": campaign.Name})

	go d.process(ctx, campaign, session)
	return nil
}

// Stop requests the campaign's loop to halt. The in-flight send, if any,
// completes normally; the loop observes the stop at the next iteration
// boundary and sends nothing further.
func (d *Dispatcher) Stop(campaignID int) error {
	if _, err := d.CampaignRepo.GetByID(campaignID); err != nil {
		return err
	}
	if err := d.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusStopped); err != nil {
		return err
	}

	d.mu.Lock()
	cancel, active := d.running[campaignID]
	d.mu.Unlock()
	if active {
		cancel()
	}

	d.publish(events.CampaignStopped, map[string]any{"campaign_id": campaignID})
	return nil
}

func (d *Dispatcher) process(ctx context.Context, campaign *model.Campaign, session string) {
	defer d.clearRunning(campaign.ID)

	log.Info().Int("campaign_id", campaign.ID).Str("name", campaign.Name).
		Str("session", session).Msg("🚀 campaign started")

	messages, err := d.MessageRepo.ListPending(campaign.ID)
	if err != nil {
		log.Error().Err(err).Int("campaign_id", campaign.ID).Msg("failed to load pending queue")
		if uerr := d.CampaignRepo.UpdateStatus(campaign.ID, model.CampaignStatusFailed); uerr != nil {
			log.Error().Err(uerr).Int("campaign_id", campaign.ID).Msg("failed to mark campaign failed")
		}
		d.publish(events.CampaignFailed, map[string]any{"campaign_id": campaign.ID})
		return
	}

	for i := range messages {
		if d.stopRequested(ctx, campaign.ID) {
			log.Info().Int("campaign_id", campaign.ID).Int("sent", i).Msg("campaign stopped")
			return
		}

		d.sendOne(campaign, session, &messages[i])

		if i < len(messages)-1 {
			select {
			case <-ctx.Done():
				log.Info().Int("campaign_id", campaign.ID).Msg("campaign stopped during delay")
				return
			case <-time.After(time.Duration(campaign.DelayBetweenMessages) * time.Millisecond):
			}
		}
	}

	if d.stopRequested(ctx, campaign.ID) {
		return
	}
	if err := d.CampaignRepo.UpdateStatus(campaign.ID, model.CampaignStatusCompleted); err != nil {
		log.Error().Err(err).Int("campaign_id", campaign.ID).Msg("failed to mark campaign completed")
	}
	if err := d.CampaignRepo.RecomputeStats(campaign.ID); err != nil {
		log.Error().Err(err).Int("campaign_id", campaign.ID).Msg("failed to recompute campaign stats")
	}
	d.publish(events.CampaignCompleted, map[string]any{"campaign_id": campaign.ID})
	log.Info().Int("campaign_id", campaign.ID).Str("name", campaign.Name).Msg("✅ campaign completed")
}

// sendOne pushes a single message through the gateway and records the
// outcome. A failed send marks only this message; the campaign goes on.
func (d *Dispatcher) sendOne(campaign *model.Campaign, session string, msg *model.Message) {
	normalized := phone.Normalize(msg.PhoneNumber, d.CountryCode)
	chatID := waha.ChatID(normalized)

	d.Gateway.SendTyping(session, chatID, campaign.TypingDuration)

	body := ""
	if msg.Message != nil {
		body = *msg.Message
	}

	var wahaID string
	var sendErr error
	if campaign.Type == model.CampaignTypeImage {
		imageURL := ""
		if campaign.ImageURL != nil {
			imageURL = *campaign.ImageURL
		}
		wahaID, sendErr = d.Gateway.SendImage(session, chatID, imageURL, body)
	} else {
		wahaID, sendErr = d.Gateway.SendText(session, chatID, body)
	}

	status := model.MessageStatusSent
	if sendErr != nil {
		status = model.MessageStatusFailed
		errText := sendErr.Error()
		log.Error().Err(sendErr).Int("message_id", msg.ID).Str("chat_id", chatID).Msg("❌ send failed")
		if err := d.MessageRepo.UpdateStatus(msg.ID, status, nil, &errText); err != nil {
			log.Error().Err(err).Int("message_id", msg.ID).Msg("failed to record send failure")
		}
	} else {
		if err := d.MessageRepo.UpdateStatus(msg.ID, status, &wahaID, nil); err != nil {
			log.Error().Err(err).Int("message_id", msg.ID).Msg("failed to record sent status")
		}
	}

	// Recomputation failures leave counters stale, never kill the loop.
	if err := d.CampaignRepo.RecomputeStats(campaign.ID); err != nil {
		log.Warn().Err(err).Int("campaign_id", campaign.ID).Msg("campaign stats recompute failed")
	}
	if err := d.ContactRepo.Upsert(normalized, nil); err != nil {
		log.Warn().Err(err).Str("phone", normalized).Msg("contact upsert failed")
	} else if err := d.ContactRepo.RecomputeStats(normalized); err != nil {
		log.Warn().Err(err).Str("phone", normalized).Msg("contact stats recompute failed")
	}

	d.publish(events.MessageStatus, map[string]any{
		"message_id":  msg.ID,
		"campaign_id": campaign.ID,
		"status":      status,
	})
}

// SendDirect sends a single ad-hoc text message outside any campaign. The
// message row is created first so replies and acks can be reconciled
// against it later.
func (d *Dispatcher) SendDirect(rawPhone, text string, typingMs int, session string) (*model.Message, error) {
	if session == "" {
		session = d.DefaultSession
	}
	if typingMs <= 0 {
		typingMs = defaultTypingDuration
	}

	normalized := phone.Normalize(rawPhone, d.CountryCode)
	msg := &model.Message{
		PhoneNumber: normalized,
		Message:     &text,
		Status:      model.MessageStatusPending,
	}
	if err := d.MessageRepo.Create(msg); err != nil {
		return nil, err
	}

	chatID := waha.ChatID(normalized)
	d.Gateway.SendTyping(session, chatID, typingMs)

	wahaID, err := d.Gateway.SendText(session, chatID, text)
	if err != nil {
		errText := err.Error()
		if uerr := d.MessageRepo.UpdateStatus(msg.ID, model.MessageStatusFailed, nil, &errText); uerr != nil {
			log.Error().Err(uerr).Int("message_id", msg.ID).Msg("failed to record send failure")
		}
		msg.Status = model.MessageStatusFailed
		msg.ErrorMessage = &errText
		return msg, err
	}

	if uerr := d.MessageRepo.UpdateStatus(msg.ID, model.MessageStatusSent, &wahaID, nil); uerr != nil {
		log.Error().Err(uerr).Int("message_id", msg.ID).Msg("failed to record sent status")
	}
	msg.Status = model.MessageStatusSent
	msg.WahaMessageID = &wahaID

	if err := d.ContactRepo.Upsert(normalized, nil); err != nil {
		log.Warn().Err(err).Str("phone", normalized).Msg("contact upsert failed")
	} else if err := d.ContactRepo.RecomputeStats(normalized); err != nil {
		log.Warn().Err(err).Str("phone", normalized).Msg("contact stats recompute failed")
	}

	d.publish(events.MessageStatus, map[string]any{"message_id": msg.ID, "status": msg.Status})
	return msg, nil
}

// stopRequested checks the cancel signal and the stored campaign status.
// The store check makes a stop issued by another process instance visible
// too, not just one issued through this Dispatcher.
func (d *Dispatcher) stopRequested(ctx context.Context, campaignID int) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	campaign, err := d.CampaignRepo.GetByID(campaignID)
	if err != nil {
		// Can't read the status; keep going rather than abandoning mid-run.
		log.Warn().Err(err).Int("campaign_id", campaignID).Msg("status check failed")
		return false
	}
	return campaign.Status != model.CampaignStatusRunning
}

func (d *Dispatcher) clearRunning(campaignID int) {
	d.mu.Lock()
	if cancel, ok := d.running[campaignID]; ok {
		cancel()
		delete(d.running, campaignID)
	}
	d.mu.Unlock()
}

func (d *Dispatcher) publish(event string, payload any) {
	if d.Events != nil {
		d.Events.Publish(event, payload)
	}
}
