package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/controller"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/model"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/service"
)

// --- Mock Repositories ---

type mockMessageRepo struct {
	messages []*model.Message
	updates  []string // "id:status" entries in call order
}

func (m *mockMessageRepo) Create(msg *model.Message) error { return nil }

func (m *mockMessageRepo) GetByWahaID(wahaID string) (*model.Message, error) {
	for _, msg := range m.messages {
		if msg.WahaMessageID != nil && *msg.WahaMessageID == wahaID {
			return msg, nil
		}
	}
	return nil, nil
}

func (m *mockMessageRepo) UpdateStatus(id int, status string, wahaID, errMsg *string) error {
	m.updates = append(m.updates, status)
	for _, msg := range m.messages {
		if msg.ID == id {
			msg.Status = status
		}
	}
	return nil
}

func (m *mockMessageRepo) ListPending(campaignID int) ([]model.Message, error) { return nil, nil }
func (m *mockMessageRepo) ListByCampaign(campaignID int) ([]model.Message, error) {
	return nil, nil
}

func (m *mockMessageRepo) ListByPhone(phone string) ([]model.Message, error) {
	out := []model.Message{}
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].PhoneNumber == phone {
			out = append(out, *m.messages[i])
		}
	}
	return out, nil
}

type mockReplyRepo struct {
	created []*model.Reply
}

func (m *mockReplyRepo) Create(r *model.Reply) error {
	r.ID = len(m.created) + 1
	m.created = append(m.created, r)
	return nil
}
func (m *mockReplyRepo) ListByCampaign(campaignID int) ([]model.Reply, error) { return nil, nil }
func (m *mockReplyRepo) ListByPhone(phone string) ([]model.Reply, error)      { return nil, nil }
func (m *mockReplyRepo) ListUnread() ([]model.Reply, error)                   { return nil, nil }
func (m *mockReplyRepo) MarkRead(id int) error                                { return nil }

type mockCampaignRepo struct {
	recomputed []int
}

func (m *mockCampaignRepo) Create(c *model.Campaign) error            { return nil }
func (m *mockCampaignRepo) GetByID(id int) (*model.Campaign, error)   { return &model.Campaign{ID: id}, nil }
func (m *mockCampaignRepo) List(limit int) ([]model.Campaign, error)  { return nil, nil }
func (m *mockCampaignRepo) UpdateStatus(id int, status string) error  { return nil }
func (m *mockCampaignRepo) Delete(id int) error                       { return nil }
func (m *mockCampaignRepo) RecomputeStats(campaignID int) error {
	m.recomputed = append(m.recomputed, campaignID)
	return nil
}

type mockContactRepo struct{}

func (m *mockContactRepo) Upsert(phone string, name *string) error          { return nil }
func (m *mockContactRepo) RecomputeStats(phone string) error                { return nil }
func (m *mockContactRepo) List(excludeBlocked bool) ([]model.Contact, error) { return nil, nil }
func (m *mockContactRepo) Block(phone string) error                          { return nil }

// --- Tests ---

func postWebhook(t *testing.T, ctrl *controller.WebhookController, payload map[string]any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/webhook", bytes.NewReader(b))
	w := httptest.NewRecorder()
	ctrl.HandleWebhook(w, req)
	return w.Result()
}

func strPtr(s string) *string { return &s }

func TestWebhookAckAdvancesMessage(t *testing.T) {
	campaignID := 7
	messages := &mockMessageRepo{messages: []*model.Message{{
		ID:            1,
		CampaignID:    &campaignID,
		PhoneNumber:   "62811111111",
		Status:        model.MessageStatusSent,
		WahaMessageID: strPtr("true_62811111111@c.us_ABC"),
	}}}
	campaigns := &mockCampaignRepo{}

	ctrl := &controller.WebhookController{Reconciler: &service.Reconciler{
		CampaignRepo: campaigns,
		MessageRepo:  messages,
		ReplyRepo:    &mockReplyRepo{},
		ContactRepo:  &mockContactRepo{},
	}}

	resp := postWebhook(t, ctrl, map[string]any{
		"event": "message.ack",
		"payload": map[string]any{
			"id":  map[string]any{"_serialized": "true_62811111111@c.us_ABC"},
			"ack": 2,
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if messages.messages[0].Status != model.MessageStatusDelivered {
		t.Errorf("status = %q, want delivered", messages.messages[0].Status)
	}
	if len(campaigns.recomputed) != 1 || campaigns.recomputed[0] != campaignID {
		t.Errorf("recomputed = %v, want [%d]", campaigns.recomputed, campaignID)
	}
}

func TestWebhookAckStringID(t *testing.T) {
	messages := &mockMessageRepo{messages: []*model.Message{{
		ID:            1,
		PhoneNumber:   "62811111111",
		Status:        model.MessageStatusSent,
		WahaMessageID: strPtr("waha-plain"),
	}}}

	ctrl := &controller.WebhookController{Reconciler: &service.Reconciler{
		CampaignRepo: &mockCampaignRepo{},
		MessageRepo:  messages,
		ReplyRepo:    &mockReplyRepo{},
		ContactRepo:  &mockContactRepo{},
	}}

	postWebhook(t, ctrl, map[string]any{
		"event":   "message.ack",
		"payload": map[string]any{"id": "waha-plain", "ack": 3},
	})

	if messages.messages[0].Status != model.MessageStatusRead {
		t.Errorf("status = %q, want read", messages.messages[0].Status)
	}
}

func TestWebhookInboundStoresReply(t *testing.T) {
	campaignID := 7
	messages := &mockMessageRepo{messages: []*model.Message{{
		ID:          4,
		CampaignID:  &campaignID,
		PhoneNumber: "62811111111",
		Status:      model.MessageStatusDelivered,
	}}}
	replies := &mockReplyRepo{}

	ctrl := &controller.WebhookController{Reconciler: &service.Reconciler{
		CampaignRepo: &mockCampaignRepo{},
		MessageRepo:  messages,
		ReplyRepo:    replies,
		ContactRepo:  &mockContactRepo{},
	}}

	resp := postWebhook(t, ctrl, map[string]any{
		"event": "message",
		"payload": map[string]any{
			"id":     "false_62811111111@c.us_XYZ",
			"from":   "62811111111@c.us",
			"fromMe": false,
			"body":   "yes please",
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if len(replies.created) != 1 {
		t.Fatalf("stored %d replies, want 1", len(replies.created))
	}
	rep := replies.created[0]
	if rep.PhoneNumber != "62811111111" {
		t.Errorf("reply phone = %q", rep.PhoneNumber)
	}
	if rep.MessageID == nil || *rep.MessageID != 4 {
		t.Errorf("reply message id = %v, want 4", rep.MessageID)
	}
	if rep.ReplyText == nil || *rep.ReplyText != "yes please" {
		t.Errorf("reply text = %v", rep.ReplyText)
	}
}

func TestWebhookIgnoresOwnMessages(t *testing.T) {
	replies := &mockReplyRepo{}
	ctrl := &controller.WebhookController{Reconciler: &service.Reconciler{
		CampaignRepo: &mockCampaignRepo{},
		MessageRepo:  &mockMessageRepo{},
		ReplyRepo:    replies,
		ContactRepo:  &mockContactRepo{},
	}}

	resp := postWebhook(t, ctrl, map[string]any{
		"event": "message",
		"payload": map[string]any{
			"from":   "62811111111@c.us",
			"fromMe": true,
			"body":   "our own blast echoed back",
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(replies.created) != 0 {
		t.Errorf("stored %d replies from our own message", len(replies.created))
	}
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	ctrl := &controller.WebhookController{Reconciler: &service.Reconciler{
		CampaignRepo: &mockCampaignRepo{},
		MessageRepo:  &mockMessageRepo{},
		ReplyRepo:    &mockReplyRepo{},
		ContactRepo:  &mockContactRepo{},
	}}

	// Unknown event.
	resp := postWebhook(t, ctrl, map[string]any{"event": "session.status", "payload": map[string]any{}})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unknown event answered %d, want 200", resp.StatusCode)
	}

	// Garbage body.
	req := httptest.NewRequest("POST", "/api/webhook", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	ctrl.HandleWebhook(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("garbage body answered %d, want 200", w.Result().StatusCode)
	}
}
