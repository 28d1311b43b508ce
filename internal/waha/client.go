// internal/waha/client.go
package waha

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds every gateway call. The gateway offers no hard
// guarantee a send ever returns; a hung call must not stall a campaign loop
// forever, so a timed-out send is treated as a failed send.
const DefaultTimeout = 30 * time.Second

// Client talks to a WAHA instance over HTTP. All calls carry the API key and
// are synchronous; pacing between calls is the caller's business.
type Client struct {
	BaseURL string
	APIKey  string

	// MediaHost, when set, replaces a loopback host in media URLs before
	// they are handed to the gateway. WAHA usually runs in Docker and
	// cannot fetch from the host's localhost.
	MediaHost string

	HTTP *http.Client
}

func NewClient(baseURL, apiKey, mediaHost string) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		MediaHost: mediaHost,
		HTTP:      &http.Client{Timeout: DefaultTimeout},
	}
}

// ChatID derives the gateway-addressable chat id from a normalized phone
// number. Identifiers that already carry an address marker pass through.
func ChatID(recipient string) string {
	if strings.Contains(recipient, "@") {
		return recipient
	}
	return recipient + "@c.us"
}

type sendResponse struct {
	ID string `json:"id"`
}

// SendTyping shows a typing indicator to the recipient. It is cosmetic:
// failures are logged and swallowed, never surfaced to the caller.
func (c *Client) SendTyping(session, chatID string, durationMs int) {
	payload := map[string]any{
		"session":  session,
		"chatId":   chatID,
		"duration": durationMs,
	}
	if _, err := c.post("/api/sendTyping", payload); err != nil {
		log.Warn().Err(err).Str("chat_id", chatID).Msg("typing indicator failed, continuing without it")
	}
}

// SendText sends a text message and returns the gateway message id.
func (c *Client) SendText(session, chatID, text string) (string, error) {
	payload := map[string]any{
		"session": session,
		"chatId":  chatID,
		"text":    text,
	}
	body, err := c.post("/api/sendText", payload)
	if err != nil {
		return "", err
	}
	var resp sendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode sendText response: %w", err)
	}
	return resp.ID, nil
}

// SendImage sends an image by URL with an optional caption and returns the
// gateway message id. Loopback hosts in the URL are rewritten to MediaHost
// so the gateway can actually fetch the file.
func (c *Client) SendImage(session, chatID, imageURL, caption string) (string, error) {
	payload := map[string]any{
		"session": session,
		"chatId":  chatID,
		"file": map[string]any{
			"url":      c.RewriteMediaURL(imageURL),
			"filename": "image.jpg",
			"mimetype": "image/jpeg",
		},
		"caption": caption,
	}
	body, err := c.post("/api/sendImage", payload)
	if err != nil {
		return "", err
	}
	var resp sendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode sendImage response: %w", err)
	}
	return resp.ID, nil
}

// RewriteMediaURL swaps a loopback host (with its port) for the configured
// routable host:port.
func (c *Client) RewriteMediaURL(mediaURL string) string {
	if c.MediaHost == "" {
		return mediaURL
	}
	u, err := url.Parse(mediaURL)
	if err != nil {
		return mediaURL
	}
	if host := u.Hostname(); host != "localhost" && host != "127.0.0.1" {
		return mediaURL
	}
	u.Host = c.MediaHost
	return u.String()
}

// ListSessions returns the raw session list from the gateway.
func (c *Client) ListSessions() (json.RawMessage, error) {
	return c.get("/api/sessions")
}

// SessionStatus returns the raw status document for one session.
func (c *Client) SessionStatus(session string) (json.RawMessage, error) {
	return c.get("/api/sessions/" + session)
}

// QRCode returns the login QR code for a session as PNG bytes.
func (c *Client) QRCode(session string) ([]byte, error) {
	return c.get("/api/sessions/" + session + "/qr")
}

func (c *Client) post(path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) get(path string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("waha %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
