package service_test

// In-memory fakes standing in for the Postgres repositories and the WAHA
// gateway. Counter recomputation mirrors the real SQL so the invariant tests
// exercise the same arithmetic.

import (
	"fmt"
	"sync"
	"time"

	appErrors "github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/errors"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/model"
)

type fakeData struct {
	mu             sync.Mutex
	nextCampaignID int
	nextMessageID  int
	nextReplyID    int
	campaigns      map[int]*model.Campaign
	messages       []*model.Message
	replies        []*model.Reply
	contacts       map[string]*model.Contact
}

func newFakeData() *fakeData {
	return &fakeData{
		campaigns: map[int]*model.Campaign{},
		contacts:  map[string]*model.Contact{},
	}
}

// --- campaigns ---

type fakeCampaignRepo struct{ d *fakeData }

func (r *fakeCampaignRepo) Create(c *model.Campaign) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.nextCampaignID++
	c.ID = r.d.nextCampaignID
	c.CreatedAt = time.Now()
	cp := *c
	r.d.campaigns[c.ID] = &cp
	return nil
}

func (r *fakeCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) List(limit int) ([]model.Campaign, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []model.Campaign{}
	for _, c := range r.d.campaigns {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCampaignRepo) UpdateStatus(campaignID int, status string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.campaigns[campaignID]
	if !ok {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	c.Status = status
	now := time.Now()
	switch status {
	case model.CampaignStatusRunning:
		if c.StartedAt == nil {
			c.StartedAt = &now
		}
	case model.CampaignStatusCompleted, model.CampaignStatusFailed:
		if c.CompletedAt == nil {
			c.CompletedAt = &now
		}
	}
	return nil
}

func (r *fakeCampaignRepo) RecomputeStats(campaignID int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.campaigns[campaignID]
	if !ok {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	var sent, delivered, failed, replied int
	for _, m := range r.d.messages {
		if m.CampaignID == nil || *m.CampaignID != campaignID {
			continue
		}
		switch m.Status {
		case model.MessageStatusSent:
			sent++
		case model.MessageStatusDelivered:
			sent++
			delivered++
		case model.MessageStatusRead:
			sent++
			delivered++
		case model.MessageStatusFailed:
			failed++
		}
	}
	for _, rep := range r.d.replies {
		if rep.CampaignID != nil && *rep.CampaignID == campaignID {
			replied++
		}
	}
	c.SentCount, c.DeliveredCount, c.FailedCount, c.ReplyCount = sent, delivered, failed, replied
	return nil
}

func (r *fakeCampaignRepo) Delete(campaignID int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	delete(r.d.campaigns, campaignID)
	return nil
}

// --- messages ---

type fakeMessageRepo struct{ d *fakeData }

func (r *fakeMessageRepo) Create(m *model.Message) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.nextMessageID++
	m.ID = r.d.nextMessageID
	m.CreatedAt = time.Now()
	if m.Status == "" {
		m.Status = model.MessageStatusPending
	}
	cp := *m
	r.d.messages = append(r.d.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) GetByWahaID(wahaMessageID string) (*model.Message, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, m := range r.d.messages {
		if m.WahaMessageID != nil && *m.WahaMessageID == wahaMessageID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) UpdateStatus(id int, status string, wahaMessageID, errorMessage *string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, m := range r.d.messages {
		if m.ID != id {
			continue
		}
		m.Status = status
		if wahaMessageID != nil {
			m.WahaMessageID = wahaMessageID
		}
		if errorMessage != nil {
			m.ErrorMessage = errorMessage
		}
		now := time.Now()
		switch status {
		case model.MessageStatusSent:
			if m.SentAt == nil {
				m.SentAt = &now
			}
		case model.MessageStatusDelivered:
			if m.SentAt == nil {
				m.SentAt = &now
			}
			if m.DeliveredAt == nil {
				m.DeliveredAt = &now
			}
		case model.MessageStatusRead:
			if m.SentAt == nil {
				m.SentAt = &now
			}
			if m.DeliveredAt == nil {
				m.DeliveredAt = &now
			}
			if m.ReadAt == nil {
				m.ReadAt = &now
			}
		}
		return nil
	}
	return fmt.Errorf("message %d not found", id)
}

func (r *fakeMessageRepo) ListPending(campaignID int) ([]model.Message, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []model.Message{}
	for _, m := range r.d.messages {
		if m.CampaignID != nil && *m.CampaignID == campaignID && m.Status == model.MessageStatusPending {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) ListByCampaign(campaignID int) ([]model.Message, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []model.Message{}
	for i := len(r.d.messages) - 1; i >= 0; i-- {
		m := r.d.messages[i]
		if m.CampaignID != nil && *m.CampaignID == campaignID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) ListByPhone(phone string) ([]model.Message, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []model.Message{}
	for i := len(r.d.messages) - 1; i >= 0; i-- {
		if r.d.messages[i].PhoneNumber == phone {
			out = append(out, *r.d.messages[i])
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) byID(id int) *model.Message {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, m := range r.d.messages {
		if m.ID == id {
			cp := *m
			return &cp
		}
	}
	return nil
}

// --- replies ---

type fakeReplyRepo struct{ d *fakeData }

func (r *fakeReplyRepo) Create(rep *model.Reply) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.nextReplyID++
	rep.ID = r.d.nextReplyID
	rep.ReceivedAt = time.Now()
	cp := *rep
	r.d.replies = append(r.d.replies, &cp)
	return nil
}

func (r *fakeReplyRepo) ListByCampaign(campaignID int) ([]model.Reply, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []model.Reply{}
	for _, rep := range r.d.replies {
		if rep.CampaignID != nil && *rep.CampaignID == campaignID {
			out = append(out, *rep)
		}
	}
	return out, nil
}

func (r *fakeReplyRepo) ListByPhone(phone string) ([]model.Reply, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []model.Reply{}
	for _, rep := range r.d.replies {
		if rep.PhoneNumber == phone {
			out = append(out, *rep)
		}
	}
	return out, nil
}

func (r *fakeReplyRepo) ListUnread() ([]model.Reply, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []model.Reply{}
	for _, rep := range r.d.replies {
		if !rep.IsRead {
			out = append(out, *rep)
		}
	}
	return out, nil
}

func (r *fakeReplyRepo) MarkRead(id int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, rep := range r.d.replies {
		if rep.ID == id {
			rep.IsRead = true
			return nil
		}
	}
	return fmt.Errorf("reply %d not found", id)
}

// --- contacts ---

type fakeContactRepo struct{ d *fakeData }

func (r *fakeContactRepo) Upsert(phone string, name *string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.contacts[phone]
	if !ok {
		c = &model.Contact{PhoneNumber: phone, CreatedAt: time.Now()}
		r.d.contacts[phone] = c
	}
	if name != nil {
		c.Name = name
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (r *fakeContactRepo) RecomputeStats(phone string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.contacts[phone]
	if !ok {
		return nil
	}
	var sent, replies int
	for _, m := range r.d.messages {
		if m.PhoneNumber == phone {
			sent++
		}
	}
	for _, rep := range r.d.replies {
		if rep.PhoneNumber == phone {
			replies++
		}
	}
	c.TotalMessagesSent = sent
	c.TotalReplies = replies
	return nil
}

func (r *fakeContactRepo) List(excludeBlocked bool) ([]model.Contact, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []model.Contact{}
	for _, c := range r.d.contacts {
		if excludeBlocked && c.IsBlocked {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeContactRepo) Block(phone string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if c, ok := r.d.contacts[phone]; ok {
		c.IsBlocked = true
	}
	return nil
}

// --- gateway ---

type sendCall struct {
	chatID   string
	text     string
	imageURL string
	image    bool
}

type fakeGateway struct {
	mu      sync.Mutex
	typing  []string
	sends   []sendCall
	failFor map[string]error

	// started receives one signal per send before any blocking; block, when
	// non-nil, makes every send wait until it is closed.
	started chan struct{}
	block   chan struct{}

	nextID int
}

func (g *fakeGateway) SendTyping(session, chatID string, durationMs int) {
	g.mu.Lock()
	g.typing = append(g.typing, chatID)
	g.mu.Unlock()
}

func (g *fakeGateway) SendText(session, chatID, text string) (string, error) {
	return g.send(sendCall{chatID: chatID, text: text})
}

func (g *fakeGateway) SendImage(session, chatID, imageURL, caption string) (string, error) {
	return g.send(sendCall{chatID: chatID, text: caption, imageURL: imageURL, image: true})
}

func (g *fakeGateway) send(call sendCall) (string, error) {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sends = append(g.sends, call)
	if g.failFor != nil {
		if err := g.failFor[call.chatID]; err != nil {
			return "", err
		}
	}
	g.nextID++
	return fmt.Sprintf("waha-%d", g.nextID), nil
}

func (g *fakeGateway) sendCalls() []sendCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sendCall{}, g.sends...)
}

// --- events ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(event string, payload any) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.events...)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
