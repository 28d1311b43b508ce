// internal/service/campaign_service.go
package service

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/model"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/phone"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/repository"
)

const (
	defaultDelayBetweenMessages = 5000 // ms
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	MessageRepo  repository.MessageRepositoryInterface
	StatsRepo    repository.StatsRepositoryInterface

	CountryCode    string
	DefaultSession string
}

type CreateCampaignInput struct {
	Name     string
	Message  string
	ImageURL string
	Caption  string
	Type     string
	Contacts []string

	// nil means "use the default"; an explicit zero delay is allowed.
	TypingDuration       *int
	DelayBetweenMessages *int
	SessionName          string
}

// CreateCampaign validates the input, creates the campaign and one pending
// message row per target. Recipients are stored in normalized form so every
// later lookup (acks, replies, contact stats) uses one canonical key.
func (s *CampaignService) CreateCampaign(in CreateCampaignInput) (*model.Campaign, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	contacts := make([]string, 0, len(in.Contacts))
	for _, c := range in.Contacts {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			contacts = append(contacts, trimmed)
		}
	}
	if len(contacts) == 0 {
		return nil, fmt.Errorf("contacts are required")
	}

	campaignType := in.Type
	if campaignType == "" {
		campaignType = model.CampaignTypeText
	}
	switch campaignType {
	case model.CampaignTypeText:
		if strings.TrimSpace(in.Message) == "" {
			return nil, fmt.Errorf("message is required for text campaigns")
		}
	case model.CampaignTypeImage:
		if strings.TrimSpace(in.ImageURL) == "" {
			return nil, fmt.Errorf("image_url is required for image campaigns")
		}
	default:
		return nil, fmt.Errorf("unknown campaign type: %s", campaignType)
	}

	typing := defaultTypingDuration
	if in.TypingDuration != nil && *in.TypingDuration >= 0 {
		typing = *in.TypingDuration
	}
	delay := defaultDelayBetweenMessages
	if in.DelayBetweenMessages != nil && *in.DelayBetweenMessages >= 0 {
		delay = *in.DelayBetweenMessages
	}
	session := in.SessionName
	if session == "" {
		session = s.DefaultSession
	}

	campaign := &model.Campaign{
		Name:                 in.Name,
		Message:              strPtrOrNil(in.Message),
		ImageURL:             strPtrOrNil(in.ImageURL),
		Caption:              strPtrOrNil(in.Caption),
		Type:                 campaignType,
		TotalTargets:         len(contacts),
		Status:               model.CampaignStatusPending,
		TypingDuration:       typing,
		DelayBetweenMessages: delay,
		SessionName:          session,
	}
	if err := s.CampaignRepo.Create(campaign); err != nil {
		return nil, err
	}

	// Per-message body: the text for text campaigns, the caption for image
	// campaigns.
	body := in.Message
	if campaignType == model.CampaignTypeImage {
		body = in.Caption
	}

	for _, raw := range contacts {
		msg := &model.Message{
			CampaignID:  &campaign.ID,
			PhoneNumber: phone.Normalize(raw, s.CountryCode),
			Message:     strPtrOrNil(body),
			Status:      model.MessageStatusPending,
		}
		if err := s.MessageRepo.Create(msg); err != nil {
			log.Error().Err(err).Str("phone", raw).Int("campaign_id", campaign.ID).
				Msg("failed to create message row")
		}
	}

	return campaign, nil
}

func (s *CampaignService) List(limit int) ([]model.Campaign, error) {
	return s.CampaignRepo.List(limit)
}

func (s *CampaignService) Get(id int) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(id)
}

func (s *CampaignService) Delete(id int) error {
	if _, err := s.CampaignRepo.GetByID(id); err != nil {
		return err
	}
	return s.CampaignRepo.Delete(id)
}

func (s *CampaignService) Statistics() (*model.Statistics, error) {
	return s.StatsRepo.Overview()
}

// ParsePhoneList splits a newline-separated blob of phone numbers as
// submitted by the blast endpoints.
func ParsePhoneList(raw string) []string {
	phones := []string{}
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			phones = append(phones, trimmed)
		}
	}
	return phones
}
